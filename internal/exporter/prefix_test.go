package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loykin/runpack/internal/document"
)

func TestRenderPrefix(t *testing.T) {
	start := document.Document{"uid": "abc", "plan_name": "scan", "proposal_id": 314}

	tests := []struct {
		name      string
		prefix    string
		firstName string
		want      string
		wantErr   bool
	}{
		{name: "literal passes through", prefix: "run1-", firstName: document.Event, want: "run1-"},
		{name: "empty passes through", prefix: "", firstName: document.Stop, want: ""},
		{name: "single placeholder", prefix: "{start[uid]}-", firstName: document.Start, want: "abc-"},
		{name: "multiple placeholders", prefix: "{start[proposal_id]}-{start[plan_name]}-", firstName: document.Start, want: "314-scan-"},
		{name: "template without start doc", prefix: "{start[uid]}-", firstName: document.Event, wantErr: true},
		{name: "missing field", prefix: "{start[sample_name]}-", firstName: document.Start, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderPrefix(tt.prefix, tt.firstName, start)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
