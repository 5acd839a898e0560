package render

import (
	"bytes"
	"html/template"
	"io"

	"github.com/i474232898/weather-panel/internal/weather"
)

// Page is the data the panel template is executed with.
type Page struct {
	Title    string
	Query    string
	Units    weather.Units
	Loading  bool
	Error    string
	Theme    string
	Date     string
	Snapshot *weather.Snapshot
	Forecast []weather.ForecastEntry
}

// Project turns a panel view into template data.
func Project(v weather.View) Page {
	p := Page{
		Title:   "Weather Forecast",
		Query:   v.Query,
		Units:   v.Units,
		Loading: v.Loading(),
		Error:   v.Error(),
		Theme:   string(v.Condition()),
	}
	if s, ok := v.Snapshot(); ok {
		p.Snapshot = &s
		p.Date = FormatDate(s.ObservedAt)
		p.Forecast = v.Forecast()
	}
	return p
}

// Renderer turns a weather.View into HTML. It holds no per-request state.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the panel template.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("panel").Funcs(template.FuncMap{
		"round":      RoundTemp,
		"icon":       IconURL,
		"tempLabel":  TempLabel,
		"speedLabel": SpeedLabel,
		"day":        ShortDay,
		"otherUnits": func(u weather.Units) weather.Units { return u.Toggle() },
	}).Parse(panelTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: t}, nil
}

// Render writes the markup for v to w.
func (r *Renderer) Render(w io.Writer, v weather.View) error {
	return r.tmpl.Execute(w, Project(v))
}

// RenderString is Render into a string.
func (r *Renderer) RenderString(v weather.View) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const panelTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body class="theme-{{.Theme}}">
<h1>Weather <span>Forecast</span></h1>
<form method="post" action="/search">
<input type="text" name="q" placeholder="Search for a city..." value="{{.Query}}" autofocus>
</form>
<form method="post" action="/units/toggle">
<button type="submit">Show {{tempLabel (otherUnits .Units)}}</button>
</form>
{{if .Loading}}<p class="loading">Loading...</p>{{end}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{with .Snapshot}}
<section class="current">
<h2>{{.Location}}, {{.Country}}</h2>
<p class="date">{{$.Date}}</p>
<div class="temp">{{round .Temp}}<span>{{tempLabel .Units}}</span></div>
{{if .Icon}}<img src="{{icon .Icon}}" alt="{{.Description}}">{{end}}
<div class="condition">{{.Condition}}</div>
<div class="range">{{round .TempMin}}{{tempLabel .Units}} / {{round .TempMax}}{{tempLabel .Units}}</div>
<ul class="extras">
<li>Feels like {{round .FeelsLike}}{{tempLabel .Units}}</li>
<li>Humidity {{.Humidity}}%</li>
<li>Pressure {{.Pressure}} hPa</li>
<li>Wind {{.WindSpeed}} {{speedLabel .Units}}</li>
</ul>
</section>
{{end}}
{{if .Forecast}}
<section class="forecast">
{{range .Forecast}}
<div class="day">
<p>{{day .Date}}</p>
{{if .Icon}}<img src="{{icon .Icon}}" alt="{{.Description}}">{{end}}
<p>{{round .Temp}}{{tempLabel $.Snapshot.Units}}</p>
<p>{{.Description}}</p>
</div>
{{end}}
</section>
{{end}}
</body>
</html>
`
