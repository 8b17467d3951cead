package backend

// Character is the remote service's character record.
type Character struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id,omitempty"`
	Name            string             `json:"name"`
	AgeDays         int                `json:"age_days"`
	Resources       map[string]float64 `json:"resources"`
	Traits          map[string]float64 `json:"traits"`
	Skills          map[string]float64 `json:"skills"`
	Relationships   map[string]float64 `json:"relationships"`
	Stage           string             `json:"stage"`
	SpouseID        string             `json:"spouse_id,omitempty"`
	ChildrenIDs     []string           `json:"children_ids,omitempty"`
	ParentIDs       []string           `json:"parent_ids,omitempty"`
	CompletedQuests []string           `json:"completed_quests,omitempty"`
	ActiveQuests    map[string]float64 `json:"active_quests,omitempty"`
	LegacyScore     float64            `json:"legacy_score"`
	EndingType      string             `json:"ending_type,omitempty"`
}

// User is the authenticated account returned by /auth/me.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// EventRecord is one entry of a character's remote history.
type EventRecord struct {
	Message string `json:"message"`
}

// AdvanceResult is returned by the time, event and life endpoints.
type AdvanceResult struct {
	Character Character     `json:"character"`
	Events    []EventRecord `json:"events"`
}

// Messages returns the event texts in response order.
func (r AdvanceResult) Messages() []string {
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Message)
	}
	return out
}

type createCharacterRequest struct {
	Name string `json:"name"`
}

type resetRequest struct {
	CharacterID string `json:"characterId"`
}

type advanceRequest struct {
	ActorID string `json:"actorId"`
	Days    int    `json:"days"`
}

type triggerRequest struct {
	ActorID   string `json:"actorId"`
	EventType string `json:"eventType,omitempty"`
}

type simulateRequest struct {
	ActorID string `json:"actorId"`
}

type performRequest struct {
	ActorID  string `json:"actorId"`
	ActionID string `json:"actionId"`
}

type callbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}
