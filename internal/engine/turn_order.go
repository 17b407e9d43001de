package engine

// PhaseOrder is the forward path of a session. Favorites is skipped unless
// Rules.FavoritesPhase is set.
var PhaseOrder = []Phase{
	PhaseSelection,
	PhaseFavorites,
	PhaseFinale,
	PhaseComplete,
}

// CommandPhases lists the phases in which each command is accepted.
var CommandPhases = map[CommandType][]Phase{
	CmdSelectColor:     {PhaseSelection},
	CmdNextRound:       {PhaseSelection},
	CmdPreviousRound:   {PhaseSelection},
	CmdSelectFavorites: {PhaseFavorites},
	CmdBracketPick:     {PhaseFinale},
	CmdSetFinalRanking: {PhaseFinale},
}

// CommandModes ties finale commands to the finale mode that uses them. A
// bracket game can only be finished by playing the bracket.
var CommandModes = map[CommandType]FinaleMode{
	CmdBracketPick:     FinaleBracket,
	CmdSetFinalRanking: FinaleRanking,
}

func modeAllows(mode FinaleMode, cmd CommandType) bool {
	want, restricted := CommandModes[cmd]
	return !restricted || want == mode
}

func phaseIn(p Phase, phases []Phase) bool {
	for _, candidate := range phases {
		if candidate == p {
			return true
		}
	}
	return false
}

func validPhase(p Phase) bool {
	return phaseIn(p, PhaseOrder)
}
