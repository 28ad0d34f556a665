package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/models"
)

// DefensePaths locates one defense-allowed CSV per category.
type DefensePaths map[models.Category]string

// CSVSource reads an nflverse play-by-play export and per-category defense
// CSVs from disk.
type CSVSource struct {
	PlaysPath string
	Defense   DefensePaths
	Logger    *zap.Logger
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) LoadPlays(ctx context.Context) ([]models.PlayRecord, error) {
	f, err := os.Open(s.PlaysPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPlaysCSV(ctx, f)
}

func (s *CSVSource) LoadDefense(ctx context.Context) (models.DefenseTables, error) {
	return loadDefenseFiles(ctx, s.Defense, s.Logger)
}

func loadDefenseFiles(ctx context.Context, paths DefensePaths, logger *zap.Logger) (models.DefenseTables, error) {
	tables := make(models.DefenseTables, len(models.Categories))
	for _, c := range models.Categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, ok := paths[c]
		if !ok || path == "" {
			return nil, fmt.Errorf("no %s defense file configured", c)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		table, err := ReadDefenseCSV(f, logger)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s defense %s: %w", c, path, err)
		}
		tables[c] = table
	}
	return tables, nil
}

// play-by-play columns, nflverse naming
const (
	colWeek           = "week"
	colPosTeam        = "posteam"
	colDefTeam        = "defteam"
	colPasser         = "passer_player_name"
	colRusher         = "rusher_player_name"
	colReceiver       = "receiver_player_name"
	colRushingYards   = "rushing_yards"
	colReceivingYards = "receiving_yards"
	colPassingYards   = "passing_yards"
	colRushTouchdown  = "rush_touchdown"
	colPassTouchdown  = "pass_touchdown"
)

var requiredPlayColumns = []string{colWeek, colPosTeam, colDefTeam, colPasser, colRusher, colReceiver}

// playColumnsRead lists every column ReadPlaysCSV looks at. A duplicate of one
// of these makes the row ambiguous; duplicates elsewhere are ignored.
var playColumnsRead = map[string]bool{
	colWeek: true, colPosTeam: true, colDefTeam: true,
	colPasser: true, colRusher: true, colReceiver: true,
	colRushingYards: true, colReceivingYards: true, colPassingYards: true,
	colRushTouchdown: true, colPassTouchdown: true,
}

// ReadPlaysCSV decodes a play-by-play CSV. Columns are located by header name,
// so the full 370-column nflverse export and trimmed extracts both work.
// Yardage and touchdown columns are optional. A header that repeats one of the
// columns it reads is rejected.
func ReadPlaysCSV(ctx context.Context, r io.Reader) ([]models.PlayRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(hdr))
	var duplicated []string
	for i, h := range hdr {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, seen := idx[name]; seen {
			if playColumnsRead[name] {
				duplicated = append(duplicated, name)
			}
			continue
		}
		idx[name] = i
	}
	if len(duplicated) > 0 {
		return nil, fmt.Errorf("duplicate columns in header: %s", strings.Join(duplicated, ", "))
	}
	col := func(name string) int {
		if i, ok := idx[name]; ok {
			return i
		}
		return -1
	}

	var missing []string
	for _, name := range requiredPlayColumns {
		if col(name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required columns missing: %s", strings.Join(missing, ", "))
	}

	iWeek, iPos, iDef := col(colWeek), col(colPosTeam), col(colDefTeam)
	iPasser, iRusher, iReceiver := col(colPasser), col(colRusher), col(colReceiver)
	iRushYds, iRecYds, iPassYds := col(colRushingYards), col(colReceivingYards), col(colPassingYards)
	iRushTD, iPassTD := col(colRushTouchdown), col(colPassTouchdown)

	plays := make([]models.PlayRecord, 0, 50000)
	for line := 2; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		field := func(i int) string {
			if i < 0 || i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		plays = append(plays, models.PlayRecord{
			Week:           parseWeek(field(iWeek)),
			PosTeam:        models.NormalizeTeam(field(iPos)),
			DefTeam:        models.NormalizeTeam(field(iDef)),
			PasserName:     strings.TrimSpace(field(iPasser)),
			RusherName:     strings.TrimSpace(field(iRusher)),
			ReceiverName:   strings.TrimSpace(field(iReceiver)),
			RushingYards:   models.ParseYards(field(iRushYds)),
			ReceivingYards: models.ParseYards(field(iRecYds)),
			PassingYards:   models.ParseYards(field(iPassYds)),
			RushTouchdown:  models.ParseFlag(field(iRushTD)),
			PassTouchdown:  models.ParseFlag(field(iPassTD)),
		})
	}
	return plays, nil
}

// parseWeek returns 0 for an unreadable week. Such plays still count toward
// the season sample but never match a week tier.
func parseWeek(s string) int {
	s = strings.TrimSpace(s)
	if w, err := strconv.Atoi(s); err == nil {
		return w
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// ReadDefenseCSV decodes a two-column "team,allowed" CSV with a header row.
// Rows with a missing team or a non-numeric or non-positive value are skipped
// and logged.
func ReadDefenseCSV(r io.Reader, logger *zap.Logger) (map[string]float64, error) {
	log := sugar(logger)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty defense file")
	}

	table := make(map[string]float64, len(rows))
	for i, row := range rows[1:] {
		if len(row) < 2 {
			log.Warnw("Skipping short defense row", "line", i+2)
			continue
		}
		allowed, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		team, ok := defenseEntry(row[0], allowed)
		if err != nil || !ok {
			log.Warnw("Skipping invalid defense row", "line", i+2, "team", row[0], "value", row[1])
			continue
		}
		table[team] = allowed
	}
	return table, nil
}
