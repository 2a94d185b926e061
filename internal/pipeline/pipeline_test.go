package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"nba-season-dashboard/internal/model"
)

const seasonHeader = "Data,Player,Tm,Opp,MP,Res,PTS,AST\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func csvSeason(label, path string) model.SeasonSource {
	return model.SeasonSource{Label: label, Source: model.Source{Type: "csv", URL: path}}
}

// fakeRecorder implements LoadRecorder for testing
type fakeRecorder struct {
	mu   sync.Mutex
	runs []model.LoadRun
}

func (f *fakeRecorder) RecordLoad(ctx context.Context, run model.LoadRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

func TestLoadSeasonCSV(t *testing.T) {
	path := writeFile(t, "season.csv", "\ufeff"+seasonHeader+
		"2024-10-22,Jayson Tatum,bos,NYK,30:30,W 132-109,37,10\n"+
		"2024-10-22,Jrue Holiday,BOS,NYK,28,W,18,\n"+
		"2024-10-24, Jalen Brunson ,NYK,IND,35,L,22,7\n")

	ds, err := LoadSeason(context.Background(), csvSeason("2024-25", path), model.DefaultSchema(), nil)
	if err != nil {
		t.Fatalf("LoadSeason: %v", err)
	}

	if ds.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", ds.Len())
	}
	if ds.ID == "" || ds.Label != "2024-25" {
		t.Errorf("unexpected identity: id=%q label=%q", ds.ID, ds.Label)
	}
	if got := strings.Join(ds.Schema.NumericColumns, ","); got != "MP,PTS,AST" {
		t.Errorf("numeric columns in header order: got %s", got)
	}

	first := ds.Records[0]
	if first.Team != "BOS" || first.Result != model.ResultWin {
		t.Errorf("team and result must be normalized: %+v", first)
	}
	if math.Abs(first.Minutes-30.5) > 1e-9 {
		t.Errorf("expected 30:30 to read as 30.5 minutes, got %v", first.Minutes)
	}
	if first.Points != 37 || first.Stats["AST"] != 10 {
		t.Errorf("unexpected stats: %+v", first.Stats)
	}
	if _, ok := ds.Records[1].Value("AST"); ok {
		t.Error("blank cell must be absent, not zero")
	}
	if ds.Records[2].Player != "Jalen Brunson" {
		t.Errorf("player must be trimmed, got %q", ds.Records[2].Player)
	}
}

func TestLoadSeasonFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string // empty means the file does not exist
		wantMsg string
	}{
		{"missing file", "", "no such file"},
		{"missing column", "Data,Player,Tm,Opp,MP,Res\n2024-10-22,A,BOS,NYK,30,W\n", "PTS"},
		{"header only missing column", "Data,Player,Tm\n", "missing required columns"},
		{"bad date", seasonHeader + "2024-10-22,A,BOS,NYK,30,W,10,1\nyesterday,B,BOS,NYK,30,W,10,1\n", "row 2"},
		{"text in numeric column", seasonHeader + "2024-10-22,A,BOS,NYK,30,W,ten,1\n", "not numeric"},
		{"empty player", seasonHeader + "2024-10-22,,BOS,NYK,30,W,10,1\n", "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.csv")
			if tt.content != "" {
				path = writeFile(t, "season.csv", tt.content)
			}

			ds, err := LoadSeason(context.Background(), csvSeason("2023-24", path), model.DefaultSchema(), nil)
			if err == nil {
				t.Fatalf("expected error, got dataset with %d rows", ds.Len())
			}
			if !errors.Is(err, ErrLoad) {
				t.Errorf("expected ErrLoad, got %v", err)
			}
			var le *LoadError
			if !errors.As(err, &le) || le.Source != path {
				t.Errorf("expected LoadError naming %s, got %#v", path, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestLoadSeasonEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", seasonHeader)
	ds, err := LoadSeason(context.Background(), csvSeason("2024-25", path), model.DefaultSchema(), nil)
	if err != nil {
		t.Fatalf("a header-only file is a valid empty season: %v", err)
	}
	if ds.Len() != 0 || len(Players(ds)) != 0 {
		t.Errorf("expected empty dataset, got %d rows", ds.Len())
	}
}

func TestLoadSeasonJSON(t *testing.T) {
	path := writeFile(t, "season.json", `[
		{"Data": "2024-10-22", "Player": "Jayson Tatum", "Tm": "BOS", "Opp": "NYK", "MP": 30, "Res": "W", "PTS": 37},
		{"Data": "2024-10-24", "Player": "Jayson Tatum", "Tm": "BOS", "Opp": "WAS", "MP": 34, "Res": "W", "PTS": 25}
	]`)
	season := model.SeasonSource{Label: "2024-25", Source: model.Source{Type: "json", URL: path}}

	ds, err := LoadSeason(context.Background(), season, model.DefaultSchema(), nil)
	if err != nil {
		t.Fatalf("LoadSeason: %v", err)
	}
	if ds.Len() != 2 || ds.Records[1].Points != 25 {
		t.Errorf("unexpected records: %+v", ds.Records)
	}
	if got := strings.Join(ds.Schema.NumericColumns, ","); got != "MP,PTS" {
		t.Errorf("unexpected numeric columns %s", got)
	}
}

func TestLoadSeasonSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seasons.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE box_scores_24_25 (Data TEXT, Player TEXT, Tm TEXT, Opp TEXT, MP REAL, Res TEXT, PTS INTEGER, TRB INTEGER)`,
		`INSERT INTO box_scores_24_25 VALUES ('2024-10-22', 'Jayson Tatum', 'BOS', 'NYK', 30.5, 'W', 37, 10)`,
		`INSERT INTO box_scores_24_25 VALUES ('2024-10-22', 'Jalen Brunson', 'NYK', 'BOS', 35, 'L', 22, NULL)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec: %v", err)
		}
	}
	db.Close()

	season := model.SeasonSource{Label: "2024-25", Source: model.Source{Type: "sqlite", URL: path, Table: "box_scores_24_25"}}
	ds, err := LoadSeason(context.Background(), season, model.DefaultSchema(), nil)
	if err != nil {
		t.Fatalf("LoadSeason: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", ds.Len())
	}
	if ds.Records[0].Stats["TRB"] != 10 {
		t.Errorf("unexpected stats: %+v", ds.Records[0].Stats)
	}
	if _, ok := ds.Records[1].Value("TRB"); ok {
		t.Error("NULL must be absent")
	}
}

func TestRunRecordsEveryLoad(t *testing.T) {
	current := writeFile(t, "current.csv", seasonHeader+"2024-10-22,A,BOS,NYK,30,W,10,1\n")
	prior := writeFile(t, "prior.csv", seasonHeader+"2023-10-22,A,BOS,NYK,30,L,12,2\n")

	t.Run("both load", func(t *testing.T) {
		rec := &fakeRecorder{}
		seasons, err := Run(context.Background(), csvSeason("2024-25", current), csvSeason("2023-24", prior), model.DefaultSchema(), rec)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if seasons.Current.Label != "2024-25" || seasons.Prior.Label != "2023-24" {
			t.Errorf("seasons swapped: %s / %s", seasons.Current.Label, seasons.Prior.Label)
		}
		if seasons.Current.ID == seasons.Prior.ID {
			t.Error("each load must get its own dataset ID")
		}
		if len(rec.runs) != 2 {
			t.Fatalf("expected 2 ledger entries, got %d", len(rec.runs))
		}
		for _, run := range rec.runs {
			if run.Status != "completed" || run.Rows != 1 || run.DatasetID == "" {
				t.Errorf("unexpected run: %+v", run)
			}
		}
		if len(seasons.Metrics) != 2 {
			t.Errorf("expected metrics for both sources, got %d", len(seasons.Metrics))
		}
	})

	t.Run("prior missing", func(t *testing.T) {
		rec := &fakeRecorder{}
		missing := filepath.Join(t.TempDir(), "nope.csv")
		_, err := Run(context.Background(), csvSeason("2024-25", current), csvSeason("2023-24", missing), model.DefaultSchema(), rec)
		if !errors.Is(err, ErrLoad) {
			t.Fatalf("expected ErrLoad, got %v", err)
		}
		var failed int
		for _, run := range rec.runs {
			if run.Status == "failed" {
				failed++
				if run.Error == "" {
					t.Error("failed run must carry its error")
				}
			}
		}
		if len(rec.runs) != 2 || failed != 1 {
			t.Errorf("expected one failed of two runs, got %+v", rec.runs)
		}
	})
}

func TestLoadSeasonCancelled(t *testing.T) {
	path := writeFile(t, "season.csv", seasonHeader+"2024-10-22,A,BOS,NYK,30,W,10,1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := LoadSeason(ctx, csvSeason("2024-25", path), model.DefaultSchema(), nil); err == nil {
		t.Error("expected error for cancelled context")
	}
}
