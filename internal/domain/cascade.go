package domain

// ChargeTransition decides the status a charge must move to given the
// current state of all its installments. The bool is false when nothing
// changes. Only Pending charges with at least one installment, all Paid,
// transition.
func ChargeTransition(charge *Charge, installments []*Installment) (Status, bool) {
	if charge == nil || charge.Status != StatusPending || len(installments) == 0 {
		return "", false
	}
	for _, inst := range installments {
		if inst.Status != StatusPaid {
			return "", false
		}
	}
	return StatusPaid, true
}
