package clinical

// RouteActionType maps an action type to the department responsible for
// executing it. Pure and total: every ActionType has exactly one home.
// The intake form and the store both call this, so the department a
// requester sees is always the department that gets stamped.
func RouteActionType(t ActionType) Role {
	switch t {
	case TypePrescription:
		return RolePharmacist
	case TypeDiagnosticRequest:
		return RoleDiagnostic
	case TypeCareInstruction, TypeVitalCheck, TypeReferral:
		return RoleNurse
	default:
		// Unreachable for valid types; nursing triages anything unknown.
		return RoleNurse
	}
}
