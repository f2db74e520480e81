package progression

// EvolveAttributes bumps the secondary skills for one action. streak is the
// value after the Streak Tracker ran. Each rule is independent.
func EvolveAttributes(attrs Attributes, a ActionType, streak int) Attributes {
	if a == ActionAcademyCompleted {
		attrs.FinancialIntelligence++
	}
	if streak > 1 || a == ActionGoalDeposit {
		attrs.Discipline++
	}
	if a == ActionBossDefeated || a == ActionTransactionCreated {
		attrs.Power++
	}
	return attrs
}
