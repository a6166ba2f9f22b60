package requests

// NotFoundMessage is the error message of a query about an unknown stop or bus, or a
// route that does not exist.
const NotFoundMessage = "not found"

type StopResponse struct {
	Buses     []string `json:"buses"`
	RequestID int      `json:"request_id"`
}

type BusResponse struct {
	RouteLength     int     `json:"route_length"`
	Curvature       float64 `json:"curvature"`
	StopCount       int     `json:"stop_count"`
	UniqueStopCount int     `json:"unique_stop_count"`
	RequestID       int     `json:"request_id"`
}

type RouteResponse struct {
	TotalTime float64     `json:"total_time"`
	Items     []RouteItem `json:"items"`
	RequestID int         `json:"request_id"`
}

// RouteItem is a WaitItem or a RideItem.
type RouteItem interface {
	isRouteItem()
}

type WaitItem struct {
	Type     string  `json:"type"`
	StopName string  `json:"stop_name"`
	Time     float64 `json:"time"`
}

type RideItem struct {
	Type      string  `json:"type"`
	Bus       string  `json:"bus"`
	SpanCount int     `json:"span_count"`
	Time      float64 `json:"time"`
}

func (WaitItem) isRouteItem() {}
func (RideItem) isRouteItem() {}

type MapResponse struct {
	Map       string `json:"map"`
	RequestID int    `json:"request_id"`
}

type ErrorResponse struct {
	RequestID    int    `json:"request_id"`
	ErrorMessage string `json:"error_message"`
}
