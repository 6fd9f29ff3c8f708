// ABOUTME: Unit tests for the Charm KV backend helpers.
// ABOUTME: Opening a real Charm KV needs a linked account and is not covered here.
package charm

import (
	"reflect"
	"testing"
)

func TestFilterKeys(t *testing.T) {
	keys := [][]byte{
		[]byte("metrics:u1"),
		[]byte("insights:u1"),
		[]byte("metrics:demo-user-123"),
		[]byte("user:a@b.co"),
	}

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{"Metrics", "metrics:", []string{"metrics:u1", "metrics:demo-user-123"}},
		{"Users", "user:", []string{"user:a@b.co"}},
		{"None", "sources:", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterKeys(keys, tt.prefix)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("filterKeys(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	if DefaultDBName != "healthai" {
		t.Errorf("DefaultDBName = %q", DefaultDBName)
	}
	if ErrReadOnly == nil {
		t.Error("ErrReadOnly must be non-nil")
	}
}
