package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/pipeline"
	"github.com/matzehuels/canopy/pkg/symbol"
)

// packResponse is the JSON body for POST /v1/packs.
type packResponse struct {
	PackID        string         `json:"pack_id"`
	BotanicalName string         `json:"botanical_name,omitempty"`
	CommonName    string         `json:"common_name,omitempty"`
	Scale         string         `json:"scale"`
	BaseSeed      uint64         `json:"base_seed"`
	Succeeded     int            `json:"succeeded"`
	Failed        int            `json:"failed"`
	DurationMS    int64          `json:"duration_ms"`
	Cells         []cellResponse `json:"cells"`
}

type cellResponse struct {
	Style    string             `json:"style"`
	Season   string             `json:"season"`
	Seed     uint64             `json:"seed"`
	FileName string             `json:"file_name"`
	SVG      string             `json:"svg,omitempty"`
	Metadata *pipeline.Metadata `json:"metadata,omitempty"`
	Error    *errorDetail       `json:"error,omitempty"`
}

func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	opts, err := pipeline.DecodeOptions(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.Logger

	pack, hit, err := s.Runner.PackWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := packResponse{
		PackID:        uuid.NewString(),
		BotanicalName: pack.BotanicalName,
		CommonName:    pack.CommonName,
		Scale:         pack.Scale.String(),
		BaseSeed:      pack.BaseSeed,
		Succeeded:     pack.Succeeded(),
		Failed:        len(pack.Failed()),
		DurationMS:    pack.Duration.Milliseconds(),
	}
	name := pack.BotanicalName
	if name == "" {
		name = "plant"
	}
	for _, c := range pack.Ordered() {
		cr := cellResponse{
			Style:    string(c.Key.Style),
			Season:   string(c.Key.Season),
			Seed:     c.Seed,
			FileName: symbol.FileName(name, c.Key.Style, c.Key.Season, pack.Scale),
		}
		if c.Err != nil {
			cr.Error = &errorDetail{Code: errors.GetCode(c.Err), Field: errors.FieldOf(c.Err), Message: errors.UserMessage(c.Err)}
		} else {
			md := pipeline.MetadataFor(c.Symbol)
			cr.SVG = string(c.Symbol.SVG)
			cr.Metadata = &md
		}
		resp.Cells = append(resp.Cells, cr)
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, resp)
}
