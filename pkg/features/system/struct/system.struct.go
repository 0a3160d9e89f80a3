package systemstruct

type Health struct {
	Status            string  `json:"status"`
	Store             string  `json:"store"`
	StoreError        string  `json:"storeError,omitempty"`
	Uptime            string  `json:"uptime"`
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
}
