package enums

// PostbackErrorReason labels entries in the postback error audit log.
type PostbackErrorReason string

const (
	PostbackErrorMappingNotFound PostbackErrorReason = "mapping_not_found"
	PostbackErrorMissingOffer    PostbackErrorReason = "missing_offer_id"
)

var validPostbackErrorReasons = []PostbackErrorReason{
	PostbackErrorMappingNotFound,
	PostbackErrorMissingOffer,
}

// String implements fmt.Stringer.
func (r PostbackErrorReason) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r PostbackErrorReason) IsValid() bool {
	for _, candidate := range validPostbackErrorReasons {
		if candidate == r {
			return true
		}
	}
	return false
}
