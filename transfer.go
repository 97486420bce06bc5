package fattybrewing

import (
	"errors"
	"time"

	"fattybrewing/internal/logger"
)

// RubbishContents are spent solids that are thrown away rather than moved.
var RubbishContents = []string{"used malt", "used hops"}

func IsRubbish(substance string) bool {
	return isIngredient(RubbishContents, substance)
}

// MoveAll drains source into destination and returns the rubbish that was
// left behind. An item that overflows destination keeps its accepted part
// and the move carries on; such failures are returned joined.
func MoveAll(source, destination *Container) ([]Removed, error) {
	unlock := lockAll(source, destination)
	defer unlock()

	log := logger.L().With("from", source.label(), "to", destination.label())
	drained := source.removeAll()

	var toAdd, rubbish []Removed
	for _, r := range drained {
		if IsRubbish(r.Substance) {
			rubbish = append(rubbish, r)
			continue
		}
		r.Quantity = destination.inUnit(r.Quantity)
		toAdd = append(toAdd, r)
	}
	if len(rubbish) > 0 {
		log.Info("transfer.rubbish", "items", len(rubbish))
	}

	var errs []error
	for _, r := range toAdd {
		e := r.Entry()
		e.UpdatedAt = time.Time{}
		err := destination.add(e)
		var over *CapacityExceededError
		switch {
		case err == nil:
			destination.emit(EventTransferred, r.Substance, r.Quantity)
		case errors.As(err, &over):
			if over.Accepted.Amount.IsPositive() {
				destination.emit(EventTransferred, r.Substance, over.Accepted)
			}
		}
		if err != nil {
			log.Warn("transfer.add_failed", "substance", r.Substance, "err", err)
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	log.Info("transfer.done", "moved", len(toAdd), "failed", len(errs))
	return rubbish, err
}
