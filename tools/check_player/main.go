// Command check_player reports how a player appears in the configured data
// source: per-week role counts, opponents, and optionally a prediction.
//
//	DATA_SOURCE=csv PLAYS_PATH=data/pbp.csv go run ./tools/check_player -player J.Allen -opponent NYJ -week 5
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/config"
	"github.com/playpredict/forecast-api/internal/loader"
	"github.com/playpredict/forecast-api/internal/logic"
	"github.com/playpredict/forecast-api/internal/models"
)

type weekRow struct {
	opponents map[string]bool
	roles     map[models.Role]int
}

func main() {
	player := flag.String("player", "", "player name, e.g. J.Allen")
	opponent := flag.String("opponent", "", "optional opponent code to run a prediction against")
	week := flag.Int("week", 0, "optional week for the prediction")
	flag.Parse()

	if *player == "" {
		log.Fatal("-player is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	src, closeSource, err := loader.Open(ctx, cfg, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to open source: %v", err)
	}
	defer closeSource()

	snap, err := loader.Build(ctx, src, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	key := logic.NormalizeName(*player)
	history := snap.History(key)
	fmt.Printf("%s (key %q): %d plays in %d total\n", *player, key, len(history), snap.Info().Plays)
	if len(history) == 0 {
		suggest(snap, *player)
		os.Exit(1)
	}

	weeks := make(map[int]*weekRow)
	for _, p := range history {
		row, ok := weeks[p.Week]
		if !ok {
			row = &weekRow{opponents: map[string]bool{}, roles: map[models.Role]int{}}
			weeks[p.Week] = row
		}
		row.opponents[p.DefTeam] = true
		for _, role := range models.Roles {
			if p.KeyFor(role) == key {
				row.roles[role]++
			}
		}
	}

	order := make([]int, 0, len(weeks))
	for w := range weeks {
		order = append(order, w)
	}
	sort.Ints(order)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WEEK\tOPPONENT\tRUSHER\tRECEIVER\tPASSER")
	for _, w := range order {
		row := weeks[w]
		opps := make([]string, 0, len(row.opponents))
		for o := range row.opponents {
			opps = append(opps, o)
		}
		sort.Strings(opps)
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\n", w, strings.Join(opps, ","),
			row.roles[models.RoleRusher], row.roles[models.RoleReceiver], row.roles[models.RolePasser])
	}
	tw.Flush()

	if *opponent == "" {
		return
	}

	q := models.PredictionQuery{PlayerName: *player, Opponent: *opponent}
	if *week > 0 {
		q.Week = week
	}
	svc := logic.NewPredictionService(logic.NewStaticStore(snap), zap.NewNop())
	result, err := svc.Predict(ctx, q)
	if err != nil {
		log.Fatalf("Prediction failed: %v", err)
	}
	fmt.Printf("\nvs %s: tier=%s sample=%d confidence=%s\n", result.Opponent, result.Tier, result.SampleSize, result.Confidence)
	fmt.Printf("  %s\n", result.Note)
	fmt.Printf("  rushing   %.2f yds %.2f td\n", result.Predicted.RushingYards, result.Predicted.RushingTDs)
	fmt.Printf("  receiving %.2f yds %.2f td\n", result.Predicted.ReceivingYards, result.Predicted.ReceivingTDs)
	fmt.Printf("  passing   %.2f yds %.2f td\n", result.Predicted.PassingYards, result.Predicted.PassingTDs)
}

func suggest(snap *logic.Snapshot, name string) {
	needle := strings.ToLower(name)
	if i := strings.LastIndex(needle, "."); i >= 0 {
		needle = needle[i+1:]
	}
	var hits []string
	for _, p := range snap.Players("") {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			hits = append(hits, p.Name)
		}
	}
	if len(hits) > 0 {
		fmt.Printf("Similar names: %s\n", strings.Join(hits, ", "))
	}
}
