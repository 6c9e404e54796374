package scheduling

import "sort"

// Standing is the accumulated result line for one team. Standings are
// derived on demand from completed matches and never stored.
type Standing struct {
	TeamID        string `json:"team_id"`
	TeamName      string `json:"team_name"`
	Played        int    `json:"played"`
	Won           int    `json:"won"`
	Lost          int    `json:"lost"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	PointDiff     int    `json:"point_diff"`
}

// CalculateStandings folds completed matches into one standing per
// supplied team, sorted by wins then point differential. Matches whose
// sides do not resolve against the team list are skipped. A drawn score
// counts toward played and points but neither wins nor losses. Teams
// with no completed matches keep all-zero lines and keep their input
// order among ties.
func CalculateStandings(matches []Match, teams []Team) []Standing {
	standings := make([]Standing, len(teams))
	index := make(map[string]*Standing, len(teams))
	for i, t := range teams {
		standings[i] = Standing{TeamID: t.ID, TeamName: t.Name}
		index[t.ID] = &standings[i]
	}

	for _, m := range matches {
		if !m.Completed || m.Score == nil || m.Team1 == nil || m.Team2 == nil {
			continue
		}
		s1, ok1 := index[m.Team1.ID]
		s2, ok2 := index[m.Team2.ID]
		if !ok1 || !ok2 {
			continue
		}

		s1.Played++
		s2.Played++
		s1.PointsFor += m.Score.Side1
		s1.PointsAgainst += m.Score.Side2
		s2.PointsFor += m.Score.Side2
		s2.PointsAgainst += m.Score.Side1

		switch {
		case m.Score.Side1 > m.Score.Side2:
			s1.Won++
			s2.Lost++
		case m.Score.Side2 > m.Score.Side1:
			s2.Won++
			s1.Lost++
		}
	}

	for i := range standings {
		standings[i].PointDiff = standings[i].PointsFor - standings[i].PointsAgainst
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Won != standings[j].Won {
			return standings[i].Won > standings[j].Won
		}
		return standings[i].PointDiff > standings[j].PointDiff
	})

	return standings
}
