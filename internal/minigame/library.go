package minigame

// Static content tables shared by the mini-game engines. All of it is
// immutable after load; engines copy and shuffle what they draw.

// ClueCard is one investigation lead shown by the Clue Tracker.
type ClueCard struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	ThreadID   string `json:"-"`
	RedHerring bool   `json:"-"`
}

// clueThreads are connected leads; a mission picks one thread and the player
// must confirm enough cards from it.
var clueThreads = [][]ClueCard{
	{
		{Title: "Scorched Transit Pass", Body: "A monorail pass fused to slag, recovered two blocks from the vault. The melt pattern matches a directed thermal lance.", ThreadID: "vault-heist"},
		{Title: "Vault Door Timestamp", Body: "The vault's seismic log shows a 0.4s breach window at 02:17 — exactly between guard rotations.", ThreadID: "vault-heist"},
		{Title: "Maintenance Badge 7741", Body: "Badge 7741 accessed the sublevel at 02:02. Its owner has been off-world for a month.", ThreadID: "vault-heist"},
		{Title: "Thermal Lance Receipt", Body: "An industrial supplier shipped a Mk-4 thermal lance to a shell company registered above the transit line.", ThreadID: "vault-heist"},
	},
	{
		{Title: "Jammed Relay Tower", Body: "The Eastside relay dropped for ninety seconds during the blackout. Someone fed it a looped diagnostic.", ThreadID: "blackout"},
		{Title: "Substation Handprint", Body: "A conductive gel handprint on the substation rail, five-fingered, no glove seam.", ThreadID: "blackout"},
		{Title: "Grid Op's Locker", Body: "The night operator's locker holds a burner phone with one outgoing call, placed at the exact second of the surge.", ThreadID: "blackout"},
		{Title: "Capacitor Manifest", Body: "Three industrial capacitors signed out of inventory to a work order nobody filed.", ThreadID: "blackout"},
	},
	{
		{Title: "Torn Cape Fiber", Body: "A ballistic-weave fiber snagged on the rooftop antenna. The weave is licensed to exactly two suit manufacturers.", ThreadID: "rooftop"},
		{Title: "Rooftop Gravel Scuff", Body: "Landing scuffs in the gravel, spaced for a two-point touchdown. Whoever it was came down heavy and fast.", ThreadID: "rooftop"},
		{Title: "Window Washer's Account", Body: "The crew on the west face heard a chime — 'like a phone finding signal' — seconds before the alarm.", ThreadID: "rooftop"},
	},
}

// clueFillers pad the deck; they are safe to confirm but count for nothing.
var clueFillers = []ClueCard{
	{Title: "Cold Coffee Cup", Body: "Half a cup of vending-machine coffee on the guard desk. Still sealed lid. Probably nothing."},
	{Title: "Parking Citation", Body: "A citation issued to a sedan parked across the loading dock. Registered to a retiree in the suburbs."},
	{Title: "Broken Umbrella", Body: "An umbrella wedged in the alley grate, inside-out. It rained three days ago."},
	{Title: "Flyer for a Gala", Body: "A crumpled invitation to the Meridian Foundation gala. Half the city got one."},
	{Title: "Stray Bolt", Body: "A standard M8 bolt near the service door. The door hinges use M6."},
	{Title: "Lunch Order Slip", Body: "A delivery slip for four sandwiches, paid in cash, delivered to a floor that was empty."},
}

// clueRedHerrings look load-bearing but confirming one torpedoes the case.
var clueRedHerrings = []ClueCard{
	{Title: "Monogrammed Glove", Body: "A leather glove with the initials of a known vigilante. Planted in plain sight, almost theatrically.", RedHerring: true},
	{Title: "Threatening Note", Body: "A note naming the victim, typed on a typewriter sold in every pawn shop downtown. Too neat.", RedHerring: true},
	{Title: "Anonymous Tip", Body: "A tip line call fingering the night watchman. Voice modulated, details only a planner would know.", RedHerring: true},
	{Title: "Dropped Matchbook", Body: "A matchbook from the Black Orchid club, placed dead center of the hallway camera's view.", RedHerring: true},
}

// codeSymbolSets are the alphabets the Code Breaker draws secrets from.
var codeSymbolSets = map[string][]rune{
	"glyphs": []rune("◆●▲■★◎✦✚"),
	"greek":  []rune("ΑΒΓΔΘΛΞΣΨΩ"),
	"digits": []rune("0123456789"),
}

// SubsystemSpec seeds one Lockdown Override subsystem.
type SubsystemSpec struct {
	Name       string
	Volatility float64
	Recovery   float64
	Boost      float64
}

var lockdownSubsystems = []SubsystemSpec{
	{Name: "Life Support", Volatility: 6, Recovery: 14, Boost: 9},
	{Name: "Containment Field", Volatility: 9, Recovery: 12, Boost: 8},
	{Name: "Sensor Array", Volatility: 7, Recovery: 15, Boost: 10},
	{Name: "Blast Doors", Volatility: 5, Recovery: 13, Boost: 9},
	{Name: "Coolant Loop", Volatility: 8, Recovery: 14, Boost: 8},
	{Name: "Comms Uplink", Volatility: 7, Recovery: 16, Boost: 10},
}

// SurgeEvent scripts one Power Surge wave modifier.
type SurgeEvent struct {
	Name       string
	Volatility float64
	Bias       float64
	Duration   int
}

var surgeEvents = []SurgeEvent{
	{Name: "Harmonic Spike", Volatility: 7, Bias: 6, Duration: 9},
	{Name: "Grid Brownout", Volatility: 5, Bias: -7, Duration: 10},
	{Name: "Feedback Loop", Volatility: 9, Bias: 3, Duration: 8},
	{Name: "Phase Drift", Volatility: 6, Bias: -4, Duration: 11},
	{Name: "Capacitor Flutter", Volatility: 8, Bias: 5, Duration: 8},
	{Name: "Load Shed", Volatility: 4, Bias: -9, Duration: 9},
	{Name: "Resonance Cascade", Volatility: 10, Bias: 7, Duration: 7},
}

// Stratagem directions use the compact form the input layer speaks.
const (
	DirUp    = "up"
	DirDown  = "down"
	DirLeft  = "left"
	DirRight = "right"
)

// Stratagem is one call-in with its fixed directional sequence.
type Stratagem struct {
	Name     string   `json:"name"`
	Sequence []string `json:"-"`
}

var stratagems = []Stratagem{
	{Name: "Orbital Floodlights", Sequence: []string{DirUp, DirUp, DirLeft, DirRight}},
	{Name: "Riot Foam Barrage", Sequence: []string{DirDown, DirLeft, DirLeft, DirUp}},
	{Name: "EMP Blanket", Sequence: []string{DirLeft, DirRight, DirDown, DirDown, DirUp}},
	{Name: "Rapid Evac Beacon", Sequence: []string{DirUp, DirDown, DirUp, DirRight}},
	{Name: "Kinetic Shield Wall", Sequence: []string{DirRight, DirRight, DirDown, DirLeft, DirUp}},
	{Name: "Drone Recon Sweep", Sequence: []string{DirLeft, DirUp, DirRight, DirDown}},
	{Name: "Signal Flare Net", Sequence: []string{DirDown, DirDown, DirRight, DirUp, DirLeft}},
	{Name: "Adrenal Booster Drop", Sequence: []string{DirUp, DirLeft, DirDown, DirRight, DirRight}},
	{Name: "Cryo Containment Pod", Sequence: []string{DirRight, DirDown, DirLeft, DirLeft}},
	{Name: "Thunderclap Charge", Sequence: []string{DirDown, DirUp, DirUp, DirLeft, DirRight}},
}

// lockpickBanks hold candidate passwords by complexity tier. All words within
// a tier share one length so likeness scores stay comparable.
var lockpickBanks = map[string][]string{
	"low":    {"VAULT", "CAPES", "SIREN", "GHOST", "BLITZ", "NEXUS", "PRISM", "STORM", "VIGIL", "EMBER"},
	"medium": {"CIPHERS", "PHANTOM", "TEMPEST", "WARDENS", "CRUSADE", "ECLIPSE", "FALLOUT", "IONIZED", "MIRRORS", "OUTPOST"},
	"high":   {"OVERWATCH", "SENTINELS", "CATACLYSM", "NIGHTFALL", "PARAGONIC", "SYNDICATE", "VANISHING", "WAVEFORMS", "XENOLITHS", "ZEALOTRIA"},
}

// lockpickFiller is the junk charset packed around placed words in the
// memory-dump grid.
const lockpickFiller = "!@#$%^&*()_+-=[]{};:<>?/\\|~."
