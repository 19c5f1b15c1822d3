package localauth

const GetLocalListVersionFeatureName = "GetLocalListVersion"

type GetLocalListVersionRequest struct {
}

type GetLocalListVersionResponse struct {
	VersionNumber int `json:"versionNumber" validate:"gte=0"`
}

func (r GetLocalListVersionRequest) GetFeatureName() string {
	return GetLocalListVersionFeatureName
}

func (c GetLocalListVersionResponse) GetFeatureName() string {
	return GetLocalListVersionFeatureName
}

func NewGetLocalListVersionResponse(version int) *GetLocalListVersionResponse {
	return &GetLocalListVersionResponse{VersionNumber: version}
}
