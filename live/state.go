package live

// Transition computes the next state for a child whose idle tick is idle,
// given the slow and max_idle thresholds, per the hysteretic table:
//
//	From  | idle<=slow | slow<idle<=max_idle | idle>max_idle
//	OK    |     —      |        SLOW         |     FAIL
//	SLOW  |     OK     |         —           |     FAIL
//	FAIL  |     OK     |        SLOW         |      —
//
// changed is false when current already matches the row's "—" cell; no
// cstate event is emitted in that case (edge-triggered).
func Transition(current CState, idle, slow, maxIdle int) (next CState, changed bool) {
	switch current {
	case StateOK:
		switch {
		case idle > maxIdle:
			return StateFail, true
		case idle > slow:
			return StateSlow, true
		default:
			return StateOK, false
		}
	case StateSlow:
		switch {
		case idle <= slow:
			return StateOK, true
		case idle > maxIdle:
			return StateFail, true
		default:
			return StateSlow, false
		}
	case StateFail:
		switch {
		case idle <= slow:
			return StateOK, true
		case idle <= maxIdle:
			return StateSlow, true
		default:
			return StateFail, false
		}
	default:
		return current, false
	}
}
