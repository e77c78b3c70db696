package controllertest

import (
	"testing"

	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
	"github.com/stretchr/testify/assert"
)

func TestSearchTemplates(t *testing.T) {
	tree := &mvc.ViewModel{
		Template: "layout/layout",
		Children: []*mvc.ViewModel{
			{Template: "first", Children: []*mvc.ViewModel{{Template: "first/nested"}}},
			{Template: "second"},
		},
	}

	tests := []struct {
		name     string
		template string
		search   TemplateSearch
		want     bool
	}{
		{name: "root", template: "layout/layout", search: SearchFirstChild, want: true},
		{name: "first child", template: "first", search: SearchFirstChild, want: true},
		{name: "first child descends", template: "first/nested", search: SearchFirstChild, want: true},
		{name: "second child skipped", template: "second", search: SearchFirstChild, want: false},
		{name: "second child searched", template: "second", search: SearchAllChildren, want: true},
		{name: "nested searched", template: "first/nested", search: SearchAllChildren, want: true},
		{name: "unknown", template: "unknown", search: SearchAllChildren, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, searchTemplates(tree, tt.template, tt.search))
		})
	}

	assert.False(t, searchTemplates(nil, "layout/layout", SearchAllChildren))
	assert.Equal(t, "first-child", SearchFirstChild.String())
	assert.Equal(t, "all-children", SearchAllChildren.String())
}
