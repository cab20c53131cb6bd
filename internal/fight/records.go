package fight

import "time"

// Record is the long-lived row describing a fight. The turn-by-turn State
// lives in the state store; only the final result is mirrored here.
type Record struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	UserID     string `json:"user_id" gorm:"index;size:64"`
	StageID    string `json:"stage_id" gorm:"index;size:64"`
	MapID      string `json:"map_id" gorm:"index;size:64"`
	Campaign   string `json:"campaign" gorm:"index;size:64"`
	MapLevel   int    `json:"map_level"`
	StageLevel int    `json:"stage_level"`
	Boss       bool   `json:"boss"`
	// Result stays "active" until the engine reaches win or lose.
	Result    Status        `json:"result" gorm:"size:16;index"`
	Allies    []RecordAlly  `json:"allies" gorm:"foreignKey:FightID;constraint:OnDelete:CASCADE;"`
	Enemies   []RecordEnemy `json:"enemies" gorm:"foreignKey:FightID;constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TableName keeps the persisted table short.
func (Record) TableName() string { return "fights" }

// RecordAlly is one ally taking part in a fight. Its ID is the combatant's
// fightId in the fight state.
type RecordAlly struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	FightID   string `json:"-" gorm:"index;size:36"`
	AllyID    string `json:"ally_id" gorm:"size:64"`
	Position  int    `json:"position"`
	Level     int    `json:"level"`
	Ascension int    `json:"ascension"`
}

func (RecordAlly) TableName() string { return "fight_allies" }

// RecordEnemy is one enemy taking part in a fight.
type RecordEnemy struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	FightID  string `json:"-" gorm:"index;size:36"`
	EnemyID  string `json:"enemy_id" gorm:"size:64"`
	Position int    `json:"position"`
	Level    int    `json:"level"`
}

func (RecordEnemy) TableName() string { return "fight_enemies" }
