package chart

import (
	"testing"

	"github.com/Masterminds/semver/v3"

	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
)

func TestDecodeChart(t *testing.T) {
	c, err := DecodeChart([]byte("name: n\nversion: 1.2.3\n"))
	if err != nil {
		t.Fatalf("DecodeChart() error = %v", err)
	}
	if c.Name() != "n" {
		t.Errorf("Name() = %q, want %q", c.Name(), "n")
	}
	want := semver.MustParse("1.2.3")
	if !c.Version().Equal(want) {
		t.Errorf("Version() = %s, want %s", c.Version(), want)
	}
}

func TestDecodeChart_IgnoresUnknownKeys(t *testing.T) {
	doc := `
apiVersion: v2
name: mayastor
version: 2.7.1
appVersion: 2.7.1
description: Mayastor umbrella chart
dependencies:
  - name: mayastor
    version: 2.7.1
`
	c, err := DecodeChart([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeChart() error = %v", err)
	}
	if c.Name() != "mayastor" {
		t.Errorf("Name() = %q, want %q", c.Name(), "mayastor")
	}
}

func TestDecodeChart_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "malformed version",
			doc:  "name: n\nversion: not-a-version\n",
		},
		{
			name: "missing version",
			doc:  "name: n\n",
		},
		{
			name: "missing name",
			doc:  "version: 1.2.3\n",
		},
		{
			name: "empty name",
			doc:  "name: \"\"\nversion: 1.2.3\n",
		},
		{
			name: "name is not a string",
			doc:  "name: 42\nversion: 1.2.3\n",
		},
		{
			name: "document is a sequence",
			doc:  "- name: n\n",
		},
		{
			name: "empty document",
			doc:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := DecodeChart([]byte(tt.doc))
			if err == nil {
				t.Fatal("DecodeChart() expected error, got nil")
			}
			if !mserrors.IsSchema(err) {
				t.Errorf("expected schema error, got %v", err)
			}
			if c != nil {
				t.Error("no value may escape a failed decode")
			}
		})
	}
}
