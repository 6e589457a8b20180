// Package stub provides a fast, deterministic AI client for local development
// and tests where no provider keys are configured.
package stub

import (
	"encoding/json"
	"hash/fnv"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// Client returns canned extractions and deterministic embeddings.
type Client struct{}

// New constructs a stub client.
func New() *Client { return &Client{} }

var _ domain.AIClient = (*Client)(nil)

// ChatJSON returns a compact profile JSON regardless of the prompt so the
// pipeline exercises its full structured path offline.
func (c *Client) ChatJSON(_ domain.Context, _ string, _ string, _ int) (string, error) {
	payload := domain.NormalizedProfile{
		Education: []domain.Education{{School: "Example University", Degree: "BSc", Discipline: "Economics"}},
		Roles: []domain.Role{{
			Company:   "Example Corp",
			Title:     "Analyst",
			StartDate: "2021-01",
			Bullets:   []domain.Bullet{{Text: "Improved process efficiency by 15%"}},
		}},
	}
	b, _ := json.Marshal(payload)
	return string(b), nil
}

// Embed returns small vectors derived from a hash of the text so equal inputs
// always embed identically.
func (c *Client) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		h := fnv.New32a()
		_, _ = h.Write([]byte(t))
		v := h.Sum32()
		out[i] = []float32{
			float32(v%101) / 101,
			float32((v>>8)%101) / 101,
			float32((v>>16)%101) / 101,
		}
	}
	return out, nil
}
