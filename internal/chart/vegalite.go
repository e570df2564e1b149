package chart

import (
	"encoding/json"
	"fmt"
)

// VegaLiteSchema is the schema URL stamped on every encoded spec
const VegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

type vlOptions struct {
	containerWidth bool
}

// VegaLiteOption customizes Spec.VegaLite
type VegaLiteOption func(*vlOptions)

// WithContainerWidth stretches the chart to the width of its container
func WithContainerWidth() VegaLiteOption {
	return func(o *vlOptions) { o.containerWidth = true }
}

type vlDoc struct {
	Schema    string         `json:"$schema"`
	Name      string         `json:"name,omitempty"`
	Title     string         `json:"title,omitempty"`
	Width     any            `json:"width,omitempty"`
	Height    int            `json:"height,omitempty"`
	Data      vlData         `json:"data"`
	Mark      vlMark         `json:"mark"`
	Encoding  map[string]any `json:"encoding"`
	Params    []vlParam      `json:"params,omitempty"`
	Transform []vlTransform  `json:"transform,omitempty"`
}

type vlData struct {
	Values any `json:"values"`
}

type vlMark struct {
	Type  MarkType `json:"type"`
	Point bool     `json:"point,omitempty"`
	Color string   `json:"color,omitempty"`
}

type vlParam struct {
	Name   string         `json:"name"`
	Select map[string]any `json:"select"`
	Bind   any            `json:"bind,omitempty"`
}

type vlTransform struct {
	Filter map[string]string `json:"filter"`
}

type vlChannel struct {
	Field string         `json:"field"`
	Type  FieldType      `json:"type"`
	Title string         `json:"title,omitempty"`
	Sort  []string       `json:"sort,omitempty"`
	Scale map[string]any `json:"scale,omitempty"`
}

// VegaLite encodes the spec as a Vega-Lite v5 document with inline data
func (s Spec) VegaLite(opts ...VegaLiteOption) ([]byte, error) {
	var o vlOptions
	for _, opt := range opts {
		opt(&o)
	}

	doc := vlDoc{
		Schema: VegaLiteSchema,
		Name:   s.Name,
		Title:  s.Title,
		Height: s.Height,
		Data:   vlData{Values: s.Data},
		Mark: vlMark{
			Type:  s.Mark.Type,
			Point: s.Mark.Point,
			Color: s.Mark.Color,
		},
		Encoding: make(map[string]any),
	}
	if len(s.Data) == 0 {
		doc.Data.Values = []struct{}{}
	}
	if o.containerWidth {
		doc.Width = "container"
	} else if s.Width > 0 {
		doc.Width = s.Width
	}

	if s.Encoding.X != nil {
		doc.Encoding["x"] = encodeChannel(*s.Encoding.X, false)
	}
	if s.Encoding.Y != nil {
		doc.Encoding["y"] = encodeChannel(*s.Encoding.Y, false)
	}
	if s.Encoding.Color != nil {
		// Pinning the domain keeps every legend entry visible while a selection
		// filters the rows.
		doc.Encoding["color"] = encodeChannel(*s.Encoding.Color, len(s.Selections) > 0)
	}
	if len(s.Encoding.Tooltip) > 0 {
		tips := make([]vlChannel, 0, len(s.Encoding.Tooltip))
		for _, c := range s.Encoding.Tooltip {
			tips = append(tips, encodeChannel(c, false))
		}
		doc.Encoding["tooltip"] = tips
	}

	for _, sel := range s.Selections {
		if sel.Name == "" || sel.Field == "" {
			return nil, fmt.Errorf("chart %s: selection requires name and field", s.Name)
		}
		p := vlParam{
			Name:   sel.Name,
			Select: map[string]any{"type": "point", "fields": []string{sel.Field}},
		}
		if sel.BindLegend {
			p.Bind = "legend"
		}
		doc.Params = append(doc.Params, p)
		doc.Transform = append(doc.Transform, vlTransform{Filter: map[string]string{"param": sel.Name}})
	}
	if s.Interactive {
		doc.Params = append(doc.Params, vlParam{
			Name:   s.Name + "_zoom",
			Select: map[string]any{"type": "interval"},
			Bind:   "scales",
		})
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode chart %s: %w", s.Name, err)
	}
	return out, nil
}

func encodeChannel(c Channel, pinDomain bool) vlChannel {
	out := vlChannel{
		Field: c.Field,
		Type:  c.Type,
		Title: c.Title,
		Sort:  c.Sort,
	}
	if c.Scale != nil {
		out.Scale = make(map[string]any)
		if c.Scale.Type != "" {
			out.Scale["type"] = c.Scale.Type
		}
		if len(c.Scale.Domain) > 0 {
			out.Scale["domain"] = c.Scale.Domain
		}
		if c.Scale.Scheme != "" {
			out.Scale["scheme"] = c.Scale.Scheme
		}
	}
	if pinDomain && len(c.Sort) > 0 {
		if out.Scale == nil {
			out.Scale = make(map[string]any)
		}
		out.Scale["domain"] = c.Sort
	}
	return out
}
