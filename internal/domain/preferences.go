package domain

// Weights steering the route optimizer.
//
// Weights are raw linear coefficients: nothing requires them to sum to 1 or
// to stay inside [0,1]. StartDevice is optional and seeds the route when it
// is part of the device pool.
type RouteOptimizationPreferences struct {
	WeightDistance    float64
	WeightCriticality float64
	WeightAirQloud    float64
	StartDevice       *MaintenanceMapItem
}
