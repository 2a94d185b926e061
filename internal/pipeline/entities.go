package pipeline

import "nba-season-dashboard/internal/model"

// Players returns the distinct player names of ds in order of first appearance.
func Players(ds *model.SeasonDataset) []string {
	return distinct(ds, func(r model.GameRecord) string { return r.Player })
}

// Teams returns the distinct team codes of ds in order of first appearance.
func Teams(ds *model.SeasonDataset) []string {
	return distinct(ds, func(r model.GameRecord) string { return r.Team })
}

func distinct(ds *model.SeasonDataset, key func(model.GameRecord) string) []string {
	if ds == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range ds.Records {
		k := key(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Describe summarizes a dataset for the seasons endpoint.
func Describe(ds *model.SeasonDataset) model.DatasetInfo {
	return model.DatasetInfo{
		ID:          ds.ID,
		Label:       ds.Label,
		Source:      ds.Source.Location(),
		SourceType:  ds.Source.Type,
		Rows:        ds.Len(),
		Players:     len(Players(ds)),
		Teams:       len(Teams(ds)),
		StatColumns: ds.Schema.SelectableStats(),
		LoadedAt:    ds.LoadedAt,
	}
}
