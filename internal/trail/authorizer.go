package trail

// Authorizer decides whether a caller may modify a trail. The stored owner id
// and the caller-supplied id are both plain strings; there is no
// authentication behind them. Swapping in a real identity check only needs a
// different Authorizer.
type Authorizer interface {
	CanModify(ownerID, callerID string) bool
}

// OwnerOnly permits modification only when the caller id equals the owner id.
type OwnerOnly struct{}

func (OwnerOnly) CanModify(ownerID, callerID string) bool {
	return ownerID != "" && ownerID == callerID
}
