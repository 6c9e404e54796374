package scheduling

// Participant is one side of a singles pairing, or one member of an
// ad-hoc doubles team. A bye participant balances an odd roster; it is
// only ever created internally and never appears in generated matches.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	bye  bool
}

func NewParticipant(id, name string) Participant {
	return Participant{ID: id, Name: name}
}

func byeParticipant() Participant {
	return Participant{bye: true}
}

// IsBye reports whether the participant is the synthetic odd-roster filler.
func (p Participant) IsBye() bool {
	return p.bye
}

// Team is one side of a team or doubles match. For the individual
// (rotating-partner) format, teams are formed per round and Players
// holds the two partners.
type Team struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Players []Participant `json:"players,omitempty"`
	bye     bool
}

func NewTeam(id, name string) Team {
	return Team{ID: id, Name: name}
}

func byeTeam() Team {
	return Team{bye: true}
}

func (t Team) IsBye() bool {
	return t.bye
}

func pairTeam(p1, p2 Participant) Team {
	return Team{
		ID:      p1.ID + "/" + p2.ID,
		Name:    p1.Name + " / " + p2.Name,
		Players: []Participant{p1, p2},
	}
}
