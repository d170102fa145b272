package domain

// Field constants for mapstructure and JSON standardization of condition configs.
const (
	// KeyConditionType is the discriminator key of every condition config.
	KeyConditionType = "conditionType"
	// KeyValueHostName names the value host a condition targets when it is not the caller's.
	KeyValueHostName = "valueHostName"
	// KeyConditions holds the child configs of a compound condition.
	KeyConditions = "conditions"
	// KeyCategory overrides the category of a condition.
	KeyCategory = "category"
)

// FormFieldName is the pseudo value host name that collects business logic errors
// which are not associated with any value host.
const FormFieldName = "*"

// ItemLength is the value host item where string length conditions cache the measured length.
const ItemLength = "Length"
