package world

// Snapshot is the marshalable view of the scene for state queries. Props
// report in spawn order, so identical histories marshal to identical bytes.
type Snapshot struct {
	Time       float32   `json:"time"`
	Weather    Weather   `json:"weather"`
	FogDensity float32   `json:"fogDensity"`
	Props      []Prop    `json:"props"`
	Messages   []Message `json:"messages,omitempty"`
	Effects    []Effect  `json:"effects,omitempty"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Time:       s.Clock,
		Weather:    s.Weather,
		FogDensity: s.FogDensity,
		Props:      s.Props(),
		Messages:   s.Messages(),
		Effects:    s.Effects(),
	}
}
