package debug

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

// ClearCache drops the cached menu pages so catalog edits show up at once.
func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	err := drm.cacheService.InvalidateMenuCaches()
	if err != nil {
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to clear menu cache"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Menu cache cleared"),
		gecho.Send(),
	)
}
