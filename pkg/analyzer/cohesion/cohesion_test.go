package cohesion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ferrith/augur/pkg/facts"
)

func class(fields []string, methods ...facts.MethodFact) *facts.ClassFact {
	c := &facts.ClassFact{Name: "Sample"}
	for _, f := range fields {
		c.Fields = append(c.Fields, facts.FieldFact{Name: f})
	}
	c.Methods = methods
	return c
}

func method(name string, fields ...string) facts.MethodFact {
	return facts.MethodFact{Name: name, UsedFields: fields}
}

func TestLCOM(t *testing.T) {
	tests := []struct {
		name  string
		class *facts.ClassFact
		want  int
	}{
		{
			name:  "no methods",
			class: class([]string{"a"}),
			want:  0,
		},
		{
			name:  "single method",
			class: class([]string{"a"}, method("m", "a")),
			want:  0,
		},
		{
			name:  "no fields",
			class: class(nil, method("m1"), method("m2")),
			want:  0,
		},
		{
			name:  "fully cohesive",
			class: class([]string{"a"}, method("m1", "a"), method("m2", "a")),
			want:  1,
		},
		{
			name: "two disjoint clusters",
			class: class([]string{"a", "b"},
				method("m1", "a"),
				method("m2", "a"),
				method("m3", "b"),
				method("m4", "b"),
			),
			want: 2,
		},
		{
			name: "transitively connected",
			class: class([]string{"a", "b"},
				method("m1", "a"),
				method("m2", "a", "b"),
				method("m3", "b"),
			),
			want: 1,
		},
		{
			name: "methods touching nothing form singleton components",
			class: class([]string{"a"},
				method("m1", "a"),
				method("m2"),
				method("m3"),
			),
			want: 3,
		},
		{
			name: "foreign field accesses do not connect methods",
			class: class([]string{"a"},
				method("m1", "a", "other"),
				method("m2", "other"),
			),
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LCOM(tt.class))
		})
	}
}
