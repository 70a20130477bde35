package model

// Stop is one visit on a vehicle's route, including the return to the depot
// as the final stop. Delivery times are rendered with TimeLayout.
type Stop struct {
	RegistrationID    string  `json:"registrationId"`
	StopNumber        int     `json:"stopNumber"`
	CustomerCode      int64   `json:"customerCode"`
	CustomerName      string  `json:"customerName"`
	DeliveryTimeStart string  `json:"deliveryTimeStart"`
	DeliveryTimeEnd   string  `json:"deliveryTimeEnd"`
	OrderWeight       int     `json:"orderWeight"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	RequestID         any     `json:"requestId"`
	LoadAfterStop     int     `json:"loadAfterStop"`
}

// VehicleStats aggregates one used vehicle's route. The per-unit figures are
// nil when the corresponding denominator is zero.
type VehicleStats struct {
	RegistrationID string   `json:"registrationId"`
	TotalCost      float64  `json:"totalCost"`
	TotalDistance  float64  `json:"totalDistance"`
	TotalLoad      int      `json:"totalLoad"`
	TotalTime      int      `json:"totalTime"`
	CostPerLoad    *float64 `json:"costPerLoad,omitempty"`
	CostPerKm      *float64 `json:"costPerKm,omitempty"`
}

// UnderutilizedVehicle echoes the static attributes of a vehicle whose route
// covered zero distance. Such vehicles cost nothing and are excluded from the
// active fleet count.
type UnderutilizedVehicle struct {
	RegistrationID string `json:"registrationId"`
	FixedCost      int    `json:"fixedCost"`
	Capacity       int    `json:"capacity"`
	RatePerKm      int    `json:"ratePerKm"`
	FreeDistance   int    `json:"freeDistance"`
}

// DroppedOrder echoes an order that could not be feasibly served, with its
// original window timestamps untouched.
type DroppedOrder struct {
	CustomerCode      int64   `json:"customerCode"`
	CustomerName      string  `json:"customerName"`
	DeliveryTimeStart string  `json:"deliveryTimeStart"`
	DeliveryTimeEnd   string  `json:"deliveryTimeEnd"`
	OrderWeight       int     `json:"orderWeight"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	RequestID         any     `json:"requestId"`
}

// Summary is the fleet-wide aggregate. The averages are nil when the fleet
// moved no load or covered no distance.
type Summary struct {
	TotalCost          *float64 `json:"totalCost"`
	TotalDistance      *float64 `json:"totalDistance"`
	TotalLoad          *int     `json:"totalLoad"`
	TotalTime          *int     `json:"totalTime"`
	TotalVehicles      *int     `json:"totalVehicles"`
	AvgCostPerLoad     *float64 `json:"avgCostPerLoad"`
	AvgCostPerDistance *float64 `json:"avgCostPerDistance"`
}

// Plan is the terminal, immutable artifact of a solve.
type Plan struct {
	Dropped       []DroppedOrder         `json:"dropped"`
	Stops         []Stop                 `json:"plan"`
	Stats         []VehicleStats         `json:"stats"`
	Underutilized []UnderutilizedVehicle `json:"underutilized"`
	Summary       Summary                `json:"summary"`
}
