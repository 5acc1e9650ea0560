package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abelbrown/storefront/internal/state"
)

// Navigation operations accepted by POST /location.
const (
	opUpdate = "update"
	opTake   = "take"
	opMore   = "more"
	opClear  = "clear"
	opToggle = "toggle"
)

// navigateRequest asks for the location reached by applying one operation to
// a starting location.
type navigateRequest struct {
	Location string `json:"location"`
	Op       string `json:"op" binding:"required,oneof=update take more clear toggle"`

	Search    *string  `json:"search"`
	Category  *string  `json:"category"`
	MinPrice  *float64 `json:"min_price" binding:"omitempty,gte=0"`
	MaxPrice  *float64 `json:"max_price" binding:"omitempty,gte=0"`
	MinRating *float64 `json:"min_rating" binding:"omitempty,gte=0,lte=5"`
	Sort      *string  `json:"sort" binding:"omitempty,oneof=none price-asc price-desc rating-desc"`
	Take      int      `json:"take" binding:"omitempty,gte=1"`
}

func (r navigateRequest) patch() state.Patch {
	p := state.Patch{
		Search:    r.Search,
		Category:  r.Category,
		MinPrice:  r.MinPrice,
		MaxPrice:  r.MaxPrice,
		MinRating: r.MinRating,
	}
	if r.Sort != nil {
		m := state.SortMode(*r.Sort)
		p.Sort = &m
	}
	return p
}

// Navigate handles POST /location
// It runs the same state store operations as the TUI against the given
// location and returns where they lead, without keeping any state.
func (h *Handler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	router := &state.Fixed{Current: req.Location}
	if router.Current == "" {
		router.Current = state.ListingPath
	}
	store := state.NewStore(router)

	switch req.Op {
	case opUpdate:
		store.Update(req.patch())
	case opTake:
		store.UpdateTake(req.Take)
	case opMore:
		store.LoadMore()
	case opClear:
		store.Clear()
	case opToggle:
		if req.Category == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: toggle needs a category"})
			return
		}
		store.ToggleCategory(*req.Category)
	}

	next := router.Target
	if next == "" {
		next = router.Current
	}
	_, q := state.ParseLocation(next)
	f, take := state.Decode(q)
	c.JSON(http.StatusOK, gin.H{
		"location": next,
		"filters":  f,
		"take":     take,
	})
}
