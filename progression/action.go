package progression

// ActionType tags a rewarded user action.
type ActionType string

const (
	ActionTransactionCreated ActionType = "transaction_created"
	ActionScheduleCreated    ActionType = "schedule_created"
	ActionGoalCreated        ActionType = "goal_created"
	ActionGoalDeposit        ActionType = "goal_deposit"
	ActionAcademyCompleted   ActionType = "academy_completed"
	ActionMissionCompleted   ActionType = "mission_completed"
	ActionFirstBalanceCheck  ActionType = "first_balance_check"
	ActionFirstDREView       ActionType = "first_dre_view"
	ActionFirstBalancoView   ActionType = "first_balanço_view"
	ActionStreak7Days        ActionType = "streak_7_days"
	ActionStreak30Days       ActionType = "streak_30_days"
	ActionBossDefeated       ActionType = "boss_defeated"
	ActionQuestCompleted     ActionType = "quest_completed"
	ActionInsightViewed      ActionType = "insight_viewed"
	ActionCustom             ActionType = "custom"

	// ActionUnknown is any tag outside the table. It earns nothing.
	ActionUnknown ActionType = ""
)

// rewardRule is one row of the reward table. Variable rules take the
// caller's points when positive and fall back to Base otherwise.
type rewardRule struct {
	Base     int64
	Variable bool
}

var rewardTable = map[ActionType]rewardRule{
	ActionTransactionCreated: {Base: 10},
	ActionScheduleCreated:    {Base: 15},
	ActionGoalCreated:        {Base: 50},
	ActionGoalDeposit:        {Base: 20, Variable: true},
	ActionAcademyCompleted:   {Base: 50},
	ActionMissionCompleted:   {Base: 25, Variable: true},
	ActionFirstBalanceCheck:  {Base: 5},
	ActionFirstDREView:       {Base: 5},
	ActionFirstBalancoView:   {Base: 5},
	ActionStreak7Days:        {Base: 100},
	ActionStreak30Days:       {Base: 500},
	ActionBossDefeated:       {Base: 150, Variable: true},
	ActionQuestCompleted:     {Base: 30},
	ActionInsightViewed:      {Base: 10},
	ActionCustom:             {Base: 0, Variable: true},
}

// KnownActions lists every tag of the reward table.
func KnownActions() []ActionType {
	return []ActionType{
		ActionTransactionCreated,
		ActionScheduleCreated,
		ActionGoalCreated,
		ActionGoalDeposit,
		ActionAcademyCompleted,
		ActionMissionCompleted,
		ActionFirstBalanceCheck,
		ActionFirstDREView,
		ActionFirstBalancoView,
		ActionStreak7Days,
		ActionStreak30Days,
		ActionBossDefeated,
		ActionQuestCompleted,
		ActionInsightViewed,
		ActionCustom,
	}
}

// ParseActionType maps a raw tag onto the enumeration. Unknown tags are not
// an error; they resolve to ActionUnknown.
func ParseActionType(raw string) ActionType {
	a := ActionType(raw)
	if _, ok := rewardTable[a]; ok {
		return a
	}
	return ActionUnknown
}

// IsVariable reports whether the caller may override the reward.
func (a ActionType) IsVariable() bool {
	return rewardTable[a].Variable
}

// BaseReward returns the unmultiplied reward for an action. override is only
// consulted for variable actions, and a non-positive override counts as absent.
func BaseReward(a ActionType, override *int64) int64 {
	rule, ok := rewardTable[a]
	if !ok {
		return 0
	}
	if rule.Variable && override != nil && *override > 0 {
		return *override
	}
	return rule.Base
}
