package calculation

// SetIDFunc overrides the report id provider (use in tests for determinism).
func (pe *PlanningEngine) SetIDFunc(f func() string) { pe.newID = f }
