package api

import (
	"time"

	"fattybrewing"
)

type createRequest struct {
	Name string `json:"name"`
	Type string `json:"type" binding:"required"`
	Size string `json:"size" binding:"required"`
}

// Category, "weight" or "volume", decides what "oz" means. Without it the
// container's size decides.
type addRequest struct {
	Substance   string `json:"substance" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Category    string `json:"category"`
	Temperature string `json:"temperature"`
	ContentType string `json:"content_type"`
}

type removeRequest struct {
	Substance string `json:"substance" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Category  string `json:"category"`
}

type heatRequest struct {
	Temperature string `json:"temperature" binding:"required"`
}

type fillRequest struct {
	Substance string `json:"substance" binding:"required"`
	Level     string `json:"level" binding:"required"`
}

type fermentRequest struct {
	Days float64 `json:"days" binding:"required,gt=0"`
}

type kegsRequest struct {
	Kegs []string `json:"kegs" binding:"required,min=1"`
}

type transferRequest struct {
	Destination string `json:"destination" binding:"required"`
}

type entryView struct {
	Substance   string    `json:"substance"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Temperature string    `json:"temperature"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type containerView struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Size     string      `json:"size"`
	Filled   string      `json:"filled"`
	Free     string      `json:"free"`
	Full     bool        `json:"full"`
	Contents []entryView `json:"contents"`
}

func newContainerView(st fattybrewing.State) containerView {
	v := containerView{
		ID:       st.ID,
		Name:     st.Name,
		Type:     string(st.Kind),
		Size:     st.Size.String(),
		Full:     st.Full,
		Contents: make([]entryView, 0, len(st.Contents)),
	}
	if c, err := fattybrewing.Restore(st); err == nil {
		v.Filled = c.TotalFilled().String()
		v.Free = c.Free().String()
	}
	for _, e := range st.Contents {
		v.Contents = append(v.Contents, newEntryView(e))
	}
	return v
}

func newEntryView(e fattybrewing.Entry) entryView {
	return entryView{
		Substance:   e.Substance,
		Type:        string(e.Type),
		Amount:      e.Quantity.String(),
		Temperature: e.Temperature.String(),
		UpdatedAt:   e.UpdatedAt,
	}
}

func newRemovedViews(rs []fattybrewing.Removed) []entryView {
	out := make([]entryView, 0, len(rs))
	for _, r := range rs {
		out = append(out, newEntryView(r.Entry()))
	}
	return out
}
