package entity

// Status constants for Expense
const (
	ExpenseStatusPending  = "PENDING"
	ExpenseStatusApproved = "APPROVED"
	ExpenseStatusRejected = "REJECTED"
)

// Role constants for User
const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
)

// Decision constants for Approval
const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

// Rule kind constants for ApprovalRule
const (
	RuleKindPercentage       = "PERCENTAGE"
	RuleKindSpecificApprover = "SPECIFIC_APPROVER"
	RuleKindHybrid           = "HYBRID"
)

// Expense category constants
const (
	CategoryTravel        = "TRAVEL"
	CategoryMeal          = "MEAL"
	CategoryAccommodation = "ACCOMMODATION"
	CategoryEquipment     = "EQUIPMENT"
	CategoryTransport     = "TRANSPORT"
	CategoryCommunication = "COMMUNICATION"
	CategoryOther         = "OTHER"
)

var validRoles = map[string]bool{
	RoleAdmin:    true,
	RoleManager:  true,
	RoleEmployee: true,
}

var validRuleKinds = map[string]bool{
	RuleKindPercentage:       true,
	RuleKindSpecificApprover: true,
	RuleKindHybrid:           true,
}

var validCategories = map[string]bool{
	CategoryTravel:        true,
	CategoryMeal:          true,
	CategoryAccommodation: true,
	CategoryEquipment:     true,
	CategoryTransport:     true,
	CategoryCommunication: true,
	CategoryOther:         true,
}

// IsValidRole returns true if the role is a known user role
func IsValidRole(role string) bool {
	return validRoles[role]
}

// IsValidRuleKind returns true if the kind is a known approval rule kind
func IsValidRuleKind(kind string) bool {
	return validRuleKinds[kind]
}

// IsValidCategory returns true if the category is a known expense category
func IsValidCategory(category string) bool {
	return validCategories[category]
}
