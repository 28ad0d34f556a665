package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/models"
)

// JSONSource reads plays from a JSON array of play objects (nflverse column
// names, values native or string-encoded) and defense tables from CSV.
type JSONSource struct {
	PlaysPath string
	Defense   DefensePaths
	Logger    *zap.Logger
}

func (s *JSONSource) Name() string { return "json" }

func (s *JSONSource) LoadPlays(ctx context.Context) ([]models.PlayRecord, error) {
	f, err := os.Open(s.PlaysPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPlaysJSON(ctx, f)
}

func (s *JSONSource) LoadDefense(ctx context.Context) (models.DefenseTables, error) {
	return loadDefenseFiles(ctx, s.Defense, s.Logger)
}

// ReadPlaysJSON streams a JSON array of plays.
func ReadPlaysJSON(ctx context.Context, r io.Reader) ([]models.PlayRecord, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read plays: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, errors.New("read plays: expected a JSON array")
	}

	var plays []models.PlayRecord
	for dec.More() {
		if len(plays)%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		var p models.PlayRecord
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode play %d: %w", len(plays), err)
		}
		p.PosTeam = models.NormalizeTeam(p.PosTeam)
		p.DefTeam = models.NormalizeTeam(p.DefTeam)
		p.PasserName = strings.TrimSpace(p.PasserName)
		p.RusherName = strings.TrimSpace(p.RusherName)
		p.ReceiverName = strings.TrimSpace(p.ReceiverName)
		plays = append(plays, p)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read plays: %w", err)
	}
	return plays, nil
}
