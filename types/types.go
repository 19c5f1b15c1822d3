package types

const SubProtocol201 = "ocpp2.0.1"

type AuthorizationStatus string

const (
	AuthorizationStatusAccepted           AuthorizationStatus = "Accepted"
	AuthorizationStatusBlocked            AuthorizationStatus = "Blocked"
	AuthorizationStatusConcurrentTx       AuthorizationStatus = "ConcurrentTx"
	AuthorizationStatusExpired            AuthorizationStatus = "Expired"
	AuthorizationStatusInvalid            AuthorizationStatus = "Invalid"
	AuthorizationStatusNoCredit           AuthorizationStatus = "NoCredit"
	AuthorizationStatusNotAllowedTypeEVSE AuthorizationStatus = "NotAllowedTypeEVSE"
	AuthorizationStatusNotAtThisLocation  AuthorizationStatus = "NotAtThisLocation"
	AuthorizationStatusNotAtThisTime      AuthorizationStatus = "NotAtThisTime"
	AuthorizationStatusUnknown            AuthorizationStatus = "Unknown"
)

type IdTokenType string

const (
	IdTokenTypeCentral         IdTokenType = "Central"
	IdTokenTypeEMAID           IdTokenType = "eMAID"
	IdTokenTypeISO14443        IdTokenType = "ISO14443"
	IdTokenTypeISO15693        IdTokenType = "ISO15693"
	IdTokenTypeKeyCode         IdTokenType = "KeyCode"
	IdTokenTypeLocal           IdTokenType = "Local"
	IdTokenTypeMacAddress      IdTokenType = "MacAddress"
	IdTokenTypeNoAuthorization IdTokenType = "NoAuthorization"
)

type AdditionalInfo struct {
	AdditionalIdToken string `json:"additionalIdToken" validate:"required,max=36"`
	Type              string `json:"type" validate:"required,max=50"`
}

type IdToken struct {
	IdToken        string           `json:"idToken" validate:"required,max=36"`
	Type           IdTokenType      `json:"type" validate:"required"`
	AdditionalInfo []AdditionalInfo `json:"additionalInfo,omitempty" validate:"omitempty,dive"`
}

func NewIdToken(token string, tokenType IdTokenType) *IdToken {
	return &IdToken{IdToken: token, Type: tokenType}
}

type IdTokenInfo struct {
	Status              AuthorizationStatus `json:"status" validate:"required"`
	CacheExpiryDateTime *DateTime           `json:"cacheExpiryDateTime,omitempty"`
	ChargingPriority    int                 `json:"chargingPriority,omitempty"`
	GroupIdToken        *IdToken            `json:"groupIdToken,omitempty"`
	Language1           string              `json:"language1,omitempty" validate:"omitempty,max=8"`
	Language2           string              `json:"language2,omitempty" validate:"omitempty,max=8"`
	EvseId              []int               `json:"evseId,omitempty"`
	PersonalMessage     *MessageContent     `json:"personalMessage,omitempty"`
}

func NewIdTokenInfo(status AuthorizationStatus) *IdTokenInfo {
	return &IdTokenInfo{Status: status}
}

// EVSE identifies a supply point and, optionally, one of its connectors.
type EVSE struct {
	Id          int  `json:"id" validate:"gte=0"`
	ConnectorId *int `json:"connectorId,omitempty" validate:"omitempty,gte=0"`
}

type ConnectorStatus string

const (
	ConnectorStatusAvailable   ConnectorStatus = "Available"
	ConnectorStatusOccupied    ConnectorStatus = "Occupied"
	ConnectorStatusReserved    ConnectorStatus = "Reserved"
	ConnectorStatusUnavailable ConnectorStatus = "Unavailable"
	ConnectorStatusFaulted     ConnectorStatus = "Faulted"
)

type OperationalStatus string

const (
	OperationalStatusInoperative OperationalStatus = "Inoperative"
	OperationalStatusOperative   OperationalStatus = "Operative"
)

type GenericStatus string

const (
	GenericStatusAccepted GenericStatus = "Accepted"
	GenericStatusRejected GenericStatus = "Rejected"
)

type GenericDeviceModelStatus string

const (
	GenericDeviceModelStatusAccepted       GenericDeviceModelStatus = "Accepted"
	GenericDeviceModelStatusRejected       GenericDeviceModelStatus = "Rejected"
	GenericDeviceModelStatusNotSupported   GenericDeviceModelStatus = "NotSupported"
	GenericDeviceModelStatusEmptyResultSet GenericDeviceModelStatus = "EmptyResultSet"
)

type StatusInfo struct {
	ReasonCode     string `json:"reasonCode" validate:"required,max=20"`
	AdditionalInfo string `json:"additionalInfo,omitempty" validate:"omitempty,max=512"`
}

type ReadingContext string
type Measurand string
type Phase string
type Location string

const (
	ReadingContextInterruptionBegin ReadingContext = "Interruption.Begin"
	ReadingContextInterruptionEnd   ReadingContext = "Interruption.End"
	ReadingContextOther             ReadingContext = "Other"
	ReadingContextSampleClock       ReadingContext = "Sample.Clock"
	ReadingContextSamplePeriodic    ReadingContext = "Sample.Periodic"
	ReadingContextTransactionBegin  ReadingContext = "Transaction.Begin"
	ReadingContextTransactionEnd    ReadingContext = "Transaction.End"
	ReadingContextTrigger           ReadingContext = "Trigger"

	MeasurandCurrentExport              Measurand = "Current.Export"
	MeasurandCurrentImport              Measurand = "Current.Import"
	MeasurandCurrentOffered             Measurand = "Current.Offered"
	MeasurandEnergyActiveExportRegister Measurand = "Energy.Active.Export.Register"
	MeasurandEnergyActiveImportRegister Measurand = "Energy.Active.Import.Register"
	MeasurandPowerActiveExport          Measurand = "Power.Active.Export"
	MeasurandPowerActiveImport          Measurand = "Power.Active.Import"
	MeasurandPowerOffered               Measurand = "Power.Offered"
	MeasurandSoC                        Measurand = "SoC"
	MeasurandVoltage                    Measurand = "Voltage"

	PhaseL1 Phase = "L1"
	PhaseL2 Phase = "L2"
	PhaseL3 Phase = "L3"

	LocationBody   Location = "Body"
	LocationCable  Location = "Cable"
	LocationEV     Location = "EV"
	LocationInlet  Location = "Inlet"
	LocationOutlet Location = "Outlet"
)

type UnitOfMeasure struct {
	Unit       string `json:"unit,omitempty" validate:"omitempty,max=20"`
	Multiplier int    `json:"multiplier,omitempty"`
}

type SampledValue struct {
	Value         float64        `json:"value"`
	Context       ReadingContext `json:"context,omitempty"`
	Measurand     Measurand      `json:"measurand,omitempty"`
	Phase         Phase          `json:"phase,omitempty"`
	Location      Location       `json:"location,omitempty"`
	UnitOfMeasure *UnitOfMeasure `json:"unitOfMeasure,omitempty"`
}

type MeterValue struct {
	Timestamp    *DateTime      `json:"timestamp" validate:"required"`
	SampledValue []SampledValue `json:"sampledValue" validate:"required,min=1,dive"`
}

type ChargingProfilePurpose string

const (
	ChargingProfilePurposeExternalConstraints ChargingProfilePurpose = "ChargingStationExternalConstraints"
	ChargingProfilePurposeStationMaxProfile   ChargingProfilePurpose = "ChargingStationMaxProfile"
	ChargingProfilePurposeTxDefaultProfile    ChargingProfilePurpose = "TxDefaultProfile"
	ChargingProfilePurposeTxProfile           ChargingProfilePurpose = "TxProfile"
)

type ChargingProfileKind string

const (
	ChargingProfileKindAbsolute  ChargingProfileKind = "Absolute"
	ChargingProfileKindRecurring ChargingProfileKind = "Recurring"
	ChargingProfileKindRelative  ChargingProfileKind = "Relative"
)

type RecurrencyKind string

const (
	RecurrencyKindDaily  RecurrencyKind = "Daily"
	RecurrencyKindWeekly RecurrencyKind = "Weekly"
)

type ChargingRateUnit string

const (
	ChargingRateUnitWatts   ChargingRateUnit = "W"
	ChargingRateUnitAmperes ChargingRateUnit = "A"
)

type ChargingSchedulePeriod struct {
	StartPeriod  int     `json:"startPeriod" validate:"gte=0"`
	Limit        float64 `json:"limit" validate:"gte=0"`
	NumberPhases *int    `json:"numberPhases,omitempty" validate:"omitempty,gte=0"`
	PhaseToUse   *int    `json:"phaseToUse,omitempty" validate:"omitempty,gte=0"`
}

type ChargingSchedule struct {
	Id                     int                      `json:"id" validate:"gte=0"`
	StartSchedule          *DateTime                `json:"startSchedule,omitempty"`
	Duration               *int                     `json:"duration,omitempty"`
	ChargingRateUnit       ChargingRateUnit         `json:"chargingRateUnit" validate:"required"`
	MinChargingRate        *float64                 `json:"minChargingRate,omitempty"`
	ChargingSchedulePeriod []ChargingSchedulePeriod `json:"chargingSchedulePeriod" validate:"required,min=1,dive"`
}

type ChargingProfile struct {
	Id                     int                    `json:"id" validate:"gte=0"`
	StackLevel             int                    `json:"stackLevel" validate:"gte=0"`
	ChargingProfilePurpose ChargingProfilePurpose `json:"chargingProfilePurpose" validate:"required"`
	ChargingProfileKind    ChargingProfileKind    `json:"chargingProfileKind" validate:"required"`
	RecurrencyKind         RecurrencyKind         `json:"recurrencyKind,omitempty"`
	ValidFrom              *DateTime              `json:"validFrom,omitempty"`
	ValidTo                *DateTime              `json:"validTo,omitempty"`
	TransactionId          string                 `json:"transactionId,omitempty" validate:"omitempty,max=36"`
	ChargingSchedule       []ChargingSchedule     `json:"chargingSchedule" validate:"required,min=1,max=3,dive"`
}

type CompositeSchedule struct {
	EvseId                 int                      `json:"evseId" validate:"gte=0"`
	Duration               int                      `json:"duration"`
	ScheduleStart          *DateTime                `json:"scheduleStart" validate:"required"`
	ChargingRateUnit       ChargingRateUnit         `json:"chargingRateUnit" validate:"required"`
	ChargingSchedulePeriod []ChargingSchedulePeriod `json:"chargingSchedulePeriod" validate:"required,min=1,dive"`
}

type CertificateType string

const (
	CertificateTypeCSMSRoot         CertificateType = "CSMSRootCertificate"
	CertificateTypeV2GRoot          CertificateType = "V2GRootCertificate"
	CertificateTypeMORoot           CertificateType = "MORootCertificate"
	CertificateTypeManufacturerRoot CertificateType = "ManufacturerRootCertificate"
	CertificateTypeV2GChain         CertificateType = "V2GCertificateChain"
)

type HashAlgorithm string

const (
	HashAlgorithmSHA256 HashAlgorithm = "SHA256"
	HashAlgorithmSHA384 HashAlgorithm = "SHA384"
	HashAlgorithmSHA512 HashAlgorithm = "SHA512"
)

type CertificateHashData struct {
	HashAlgorithm  HashAlgorithm `json:"hashAlgorithm" validate:"required"`
	IssuerNameHash string        `json:"issuerNameHash" validate:"required,max=128"`
	IssuerKeyHash  string        `json:"issuerKeyHash" validate:"required,max=128"`
	SerialNumber   string        `json:"serialNumber" validate:"required,max=40"`
}

type CertificateHashDataChain struct {
	CertificateType          CertificateType       `json:"certificateType" validate:"required"`
	CertificateHashData      CertificateHashData   `json:"certificateHashData" validate:"required"`
	ChildCertificateHashData []CertificateHashData `json:"childCertificateHashData,omitempty" validate:"omitempty,max=4,dive"`
}

type MessagePriority string

const (
	MessagePriorityAlwaysFront MessagePriority = "AlwaysFront"
	MessagePriorityInFront     MessagePriority = "InFront"
	MessagePriorityNormalCycle MessagePriority = "NormalCycle"
)

type MessageState string

const (
	MessageStateCharging    MessageState = "Charging"
	MessageStateFaulted     MessageState = "Faulted"
	MessageStateIdle        MessageState = "Idle"
	MessageStateUnavailable MessageState = "Unavailable"
)

type MessageFormat string

const (
	MessageFormatASCII MessageFormat = "ASCII"
	MessageFormatHTML  MessageFormat = "HTML"
	MessageFormatURI   MessageFormat = "URI"
	MessageFormatUTF8  MessageFormat = "UTF8"
)

type MessageContent struct {
	Format   MessageFormat `json:"format" validate:"required"`
	Language string        `json:"language,omitempty" validate:"omitempty,max=8"`
	Content  string        `json:"content" validate:"required,max=512"`
}

type MessageInfo struct {
	Id            int             `json:"id" validate:"gte=0"`
	Priority      MessagePriority `json:"priority" validate:"required"`
	State         MessageState    `json:"state,omitempty"`
	StartDateTime *DateTime       `json:"startDateTime,omitempty"`
	EndDateTime   *DateTime       `json:"endDateTime,omitempty"`
	TransactionId string          `json:"transactionId,omitempty" validate:"omitempty,max=36"`
	Message       MessageContent  `json:"message" validate:"required"`
	Display       *Component      `json:"display,omitempty"`
}

type Component struct {
	Name     string `json:"name" validate:"required,max=50"`
	Instance string `json:"instance,omitempty" validate:"omitempty,max=50"`
	EVSE     *EVSE  `json:"evse,omitempty"`
}

type Variable struct {
	Name     string `json:"name" validate:"required,max=50"`
	Instance string `json:"instance,omitempty" validate:"omitempty,max=50"`
}

type AttributeType string

const (
	AttributeTypeActual AttributeType = "Actual"
	AttributeTypeTarget AttributeType = "Target"
	AttributeTypeMinSet AttributeType = "MinSet"
	AttributeTypeMaxSet AttributeType = "MaxSet"
)

type ConnectorType string

const (
	ConnectorTypeCCS1     ConnectorType = "cCCS1"
	ConnectorTypeCCS2     ConnectorType = "cCCS2"
	ConnectorTypeType2    ConnectorType = "cType2"
	ConnectorTypeSType2   ConnectorType = "sType2"
	ConnectorTypeCHAdeMO  ConnectorType = "cG105"
	ConnectorTypePan      ConnectorType = "Pan"
	ConnectorTypeUnknown  ConnectorType = "Unknown"
	ConnectorTypeWireless ConnectorType = "wInductive"
)

// AuthorizationData is one entry of a SendLocalList payload. A missing
// IdTokenInfo marks the token for removal on a Differential update.
type AuthorizationData struct {
	IdToken     IdToken      `json:"idToken" validate:"required"`
	IdTokenInfo *IdTokenInfo `json:"idTokenInfo,omitempty"`
}
