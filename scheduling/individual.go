package scheduling

import "github.com/google/uuid"

// GenerateIndividualRoundRobin builds a doubles schedule with rotating
// partners: each round the rotated roster is split into groups of four,
// and each group plays as two ad-hoc teams. Groups touching the bye
// filler sit the round out.
//
// TotalPossibleRounds uses the same count-1 bound as the circle method.
// That is a rotation-variety heuristic, not a guarantee that every
// player partners every other player; the bound is deliberately kept as
// an approximation.
func GenerateIndividualRoundRobin(players []Participant, opts Options) Schedule {
	if len(players) < 4 {
		return emptySchedule()
	}

	roster := append([]Participant(nil), players...)
	if len(roster)%2 != 0 {
		roster = append(roster, byeParticipant())
	}

	matchesPerRound := len(roster) / 4
	if matchesPerRound == 0 {
		return emptySchedule()
	}

	totalPossibleRounds := len(roster) - 1
	roundsToGenerate := clampRounds(opts.MaxRounds, totalPossibleRounds)

	matches := make([]Match, 0, roundsToGenerate*matchesPerRound)
	rounds := 0

	for r := 0; r < roundsToGenerate; r++ {
		arranged := circleArrangement(len(roster), r)
		court := 0
		for g := 0; g+4 <= len(arranged); g += 4 {
			group := []Participant{
				roster[arranged[g]],
				roster[arranged[g+1]],
				roster[arranged[g+2]],
				roster[arranged[g+3]],
			}
			if group[0].IsBye() || group[1].IsBye() || group[2].IsBye() || group[3].IsBye() {
				continue
			}
			court++
			t1 := pairTeam(group[0], group[1])
			t2 := pairTeam(group[2], group[3])
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
