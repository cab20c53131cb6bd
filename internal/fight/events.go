package fight

import "encoding/json"

// EventAction discriminates the variants of Event.
type EventAction string

const (
	EventAttack      EventAction = "attack"
	EventHeal        EventAction = "heal"
	EventBuff        EventAction = "buff"
	EventBuffExpired EventAction = "buffExpired"
	EventVictory     EventAction = "victory"
	EventDefeat      EventAction = "defeat"
)

// Cast names used by the basic actions. Spell casts use the spell name.
const (
	CastBasicAttack = "Basic Attack"
	CastBasicHeal   = "Basic Heal"
)

// Event is one entry of the append-only fight log. Which fields are set
// depends on Action:
//
//	attack, heal   Actor, CastName, Amount, Targets
//	buff           Actor, CastName, Buff, Targets
//	buffExpired    Actor, BuffName, Buff, Targets
//	victory/defeat nothing else
type Event struct {
	Action   EventAction `json:"action"`
	Actor    string      `json:"actor,omitempty"`
	CastName string      `json:"castName,omitempty"`
	BuffName string      `json:"buffName,omitempty"`
	Amount   int         `json:"amount,omitempty"`
	Buff     *BuffSpec   `json:"buff,omitempty"`
	Targets  []string    `json:"targets,omitempty"`
}

type basicEventJSON struct {
	Action   EventAction `json:"action"`
	Actor    string      `json:"actor"`
	CastName string      `json:"castName"`
	Amount   int         `json:"amount"`
	Targets  []string    `json:"targets"`
}

type buffEventJSON struct {
	Action   EventAction `json:"action"`
	Actor    string      `json:"actor"`
	CastName string      `json:"castName"`
	Buff     *BuffSpec   `json:"buff"`
	Targets  []string    `json:"targets"`
}

type buffExpiredEventJSON struct {
	Action   EventAction `json:"action"`
	Actor    string      `json:"actor"`
	BuffName string      `json:"buffName"`
	Buff     *BuffSpec   `json:"buff"`
	Targets  []string    `json:"targets"`
}

// MarshalJSON writes exactly the fields of the event's variant, so an attack
// for 0 damage still carries "amount": 0.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Action {
	case EventAttack, EventHeal:
		return json.Marshal(basicEventJSON{Action: e.Action, Actor: e.Actor, CastName: e.CastName, Amount: e.Amount, Targets: e.Targets})
	case EventBuff:
		return json.Marshal(buffEventJSON{Action: e.Action, Actor: e.Actor, CastName: e.CastName, Buff: e.Buff, Targets: e.Targets})
	case EventBuffExpired:
		return json.Marshal(buffExpiredEventJSON{Action: e.Action, Actor: e.Actor, BuffName: e.BuffName, Buff: e.Buff, Targets: e.Targets})
	default:
		return json.Marshal(struct {
			Action EventAction `json:"action"`
		}{e.Action})
	}
}
