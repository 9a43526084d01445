package contract

import (
	"testing"
	"time"

	"github.com/huangsam/roomspot/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidateQuery(t *testing.T) {
	base := schema.SearchQuery{
		Location: schema.LocationZurichZentrum,
		From:     time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		Duration: time.Hour,
		Count:    5,
	}

	tests := []struct {
		name    string
		modify  func(*schema.SearchQuery)
		wantErr error
		msg     string
	}{
		{name: "valid", modify: func(*schema.SearchQuery) {}},
		{name: "unknown location", modify: func(q *schema.SearchQuery) { q.Location = "Gotham" }, wantErr: schema.ErrInvalidLocation},
		{name: "missing location", modify: func(q *schema.SearchQuery) { q.Location = "" }, wantErr: schema.ErrInvalidLocation},
		{name: "zero duration", modify: func(q *schema.SearchQuery) { q.Duration = 0 }, msg: "Duration"},
		{name: "zero count", modify: func(q *schema.SearchQuery) { q.Count = 0 }, msg: "Count"},
		{name: "zero start", modify: func(q *schema.SearchQuery) { q.From = time.Time{} }, msg: "From is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base
			tt.modify(&q)
			err := ValidateQuery(q)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.msg != "":
				assert.ErrorContains(t, err, tt.msg)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
