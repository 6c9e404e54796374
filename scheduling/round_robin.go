package scheduling

import "github.com/google/uuid"

// Options controls schedule generation. The zero value asks for the full
// round robin with no court constraint.
type Options struct {
	// MaxRounds caps the number of generated rounds; zero or negative
	// means play the complete schedule.
	MaxRounds int `json:"max_rounds"`
	// NumberOfCourts is advisory. Courts are numbered sequentially from 1
	// within each round and are not capped at this value.
	NumberOfCourts int `json:"number_of_courts"`
}

type Score struct {
	Side1 int `json:"side1"`
	Side2 int `json:"side2"`
}

// Match is one scheduled contest. Exactly one of the player pair or the
// team pair is set, depending on the generator that produced it. Score
// entry mutates Score and Completed in place after play.
type Match struct {
	ID        string       `json:"id"`
	Round     int          `json:"round"`
	Court     int          `json:"court"`
	Player1   *Participant `json:"player1,omitempty"`
	Player2   *Participant `json:"player2,omitempty"`
	Team1     *Team        `json:"team1,omitempty"`
	Team2     *Team        `json:"team2,omitempty"`
	Score     *Score       `json:"score,omitempty"`
	Completed bool         `json:"completed"`
}

type Schedule struct {
	Matches []Match `json:"matches"`
	// Rounds is the highest round number that actually produced a match.
	// It can be lower than the requested round count when trailing rounds
	// held only bye pairings.
	Rounds              int `json:"rounds"`
	TotalPossibleRounds int `json:"total_possible_rounds"`
}

func emptySchedule() Schedule {
	return Schedule{Matches: []Match{}}
}

// GenerateSinglesRoundRobin builds a circle-method schedule where every
// player meets every other player exactly once over the full run. Rosters
// smaller than two players yield an empty schedule rather than an error.
func GenerateSinglesRoundRobin(players []Participant, opts Options) Schedule {
	if len(players) < 2 {
		return emptySchedule()
	}

	roster := append([]Participant(nil), players...)
	if len(roster)%2 != 0 {
		roster = append(roster, byeParticipant())
	}

	totalPossibleRounds := len(roster) - 1
	roundsToGenerate := clampRounds(opts.MaxRounds, totalPossibleRounds)

	matches := make([]Match, 0, roundsToGenerate*len(roster)/2)
	rounds := 0

	for r := 0; r < roundsToGenerate; r++ {
		court := 0
		for _, pair := range circlePairs(len(roster), r) {
			p1 := roster[pair[0]]
			p2 := roster[pair[1]]
			if p1.IsBye() || p2.IsBye() {
				continue
			}
			court++
			matches = append(matches, Match{
				ID:      uuid.NewString(),
				Round:   r + 1,
				Court:   court,
				Player1: &p1,
				Player2: &p2,
			})
			rounds = r + 1
		}
	}

	return Schedule{
		Matches:             matches,
		Rounds:              rounds,
		TotalPossibleRounds: totalPossibleRounds,
	}
}

// GenerateTeamRoundRobin is the singles contract applied to pre-formed
// teams: every team meets every other team exactly once.
func GenerateTeamRoundRobin(teams []Team, opts Options) Schedule {
	if len(teams) < 2 {
		return emptySchedule()
	}

	roster := append([]Team(nil), teams...)
	if len(roster)%2 != 0 {
		roster = append(roster, byeTeam())
	}

	totalPossibleRounds := len(roster) - 1
	roundsToGenerate := clampRounds(opts.MaxRounds, totalPossibleRounds)

	matches := make([]Match, 0, roundsToGenerate*len(roster)/2)
	rounds := 0

	for r := 0; r < roundsToGenerate; r++ {
		court := 0
		for _, pair := range circlePairs(len(roster), r) {
			t1 := roster[pair[0]]
			t2 := roster[pair[1]]
			if t1.IsBye() || t2.IsBye() {
				continue
			}
			court++
			matches = append(matches, Match{
				ID:    uuid.NewString(),
				Round: r + 1,
				Court: court,
				Team1: &t1,
				Team2: &t2,
			})
			rounds = r + 1
		}
	}

	return Schedule{
		Matches:             matches,
		Rounds:              rounds,
		TotalPossibleRounds: totalPossibleRounds,
	}
}

func clampRounds(maxRounds, totalPossible int) int {
	if maxRounds <= 0 || maxRounds > totalPossible {
		return totalPossible
	}
	return maxRounds
}

// circlePairs returns the index pairings for one round of the circle
// method over count participants (count must be even). Index 0 stays
// fixed while the remaining indexes rotate one step per round.
func circlePairs(count, round int) [][2]int {
	pairs := make([][2]int, 0, count/2)
	arranged := circleArrangement(count, round)
	for i := 0; i < count/2; i++ {
		pairs = append(pairs, [2]int{arranged[i], arranged[count-1-i]})
	}
	return pairs
}

func circleArrangement(count, round int) []int {
	arranged := make([]int, count)
	arranged[0] = 0
	for i := 1; i < count; i++ {
		arranged[i] = 1 + (i-1+round)%(count-1)
	}
	return arranged
}
