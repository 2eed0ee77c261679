package transport

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"ntv2/internal/algorithm"
)

// AlgorithmInfo is the listing entry of one registered algorithm.
type AlgorithmInfo struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"display_name"`
	Group        string   `json:"group"`
	GroupID      string   `json:"group_id"`
	Kind         string   `json:"kind"`
	Region       string   `json:"region"`
	Help         string   `json:"help"`
	Tags         []string `json:"tags"`
	DirectLabel  string   `json:"direct_label"`
	InverseLabel string   `json:"inverse_label"`
	DatumLabel   string   `json:"datum_label"`
	Datums       []Option `json:"datums"`
	Grids        []Option `json:"grids"`
}

type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func Describe(d *algorithm.Descriptor) AlgorithmInfo {
	r := d.Region
	info := AlgorithmInfo{
		Name:         d.Name,
		DisplayName:  d.DisplayName,
		Group:        d.Group,
		GroupID:      d.GroupID,
		Kind:         d.Kind.String(),
		Region:       r.Code,
		Help:         d.Help,
		Tags:         d.Tags,
		DirectLabel:  r.DirectLabel,
		InverseLabel: r.InverseLabel,
		DatumLabel:   r.DatumLabel,
	}
	for _, o := range r.Datums {
		info.Datums = append(info.Datums, Option{Key: o.Key, Label: o.Label})
	}
	for _, o := range r.Grids {
		info.Grids = append(info.Grids, Option{Key: o.Key, Label: o.Label})
	}
	return info
}

// toStruct converts any JSON-encodable value whose encoding is an object.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("transport: %T is not an object: %w", v, err)
	}
	return structpb.NewStruct(m)
}

func fromStruct(s *structpb.Struct, v any) error {
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
