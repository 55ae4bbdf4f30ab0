package occupancy

import (
	"strings"

	"readinghall-dashboard/model"
)

const FallbackHallID = "1"

// ResolveHall picks the hall to show: the explicit selection, else the first
// hall returned, else the fallback id.
func ResolveHall(halls []model.Hall, selected string, fallback string) string {
	if selected = strings.TrimSpace(selected); selected != "" {
		return selected
	}
	for _, hall := range halls {
		if id := strings.TrimSpace(hall.Id.String()); id != "" {
			return id
		}
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback
	}
	return FallbackHallID
}

// HallIndex returns the position of id in halls, or -1.
func HallIndex(halls []model.Hall, id string) int {
	for i, hall := range halls {
		if hall.Id.String() == id {
			return i
		}
	}
	return -1
}
