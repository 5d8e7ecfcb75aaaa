package dto

type RejectSourceRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type ListSourcesRequest struct {
	OnlyAccepted *bool  `query:"only_accepted"`
	Kind         string `query:"kind"`
	Limit        int    `query:"limit"`
}
