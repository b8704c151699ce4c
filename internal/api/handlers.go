package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/climatiqq/climatiqq/internal/impact"
	"github.com/climatiqq/climatiqq/internal/store"
)

func (s *Server) listEntries(c *fiber.Ctx) error {
	f := store.EntryFilter{
		User:  s.userParam(c),
		Limit: c.QueryInt("limit", 0),
	}
	if m := c.Query("metric"); m != "" {
		mt, err := impact.ParseMetricType(m)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		f.MetricType = mt
	}
	if days := c.QueryInt("days", 0); days > 0 {
		f.Since = s.now().AddDate(0, 0, -days)
	}

	records, err := s.db.ListEntries(f)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) createEntry(c *fiber.Ctx) error {
	var in impact.Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid entry body: "+err.Error())
	}
	if in.User == "" {
		in.User = s.userParam(c)
	}
	rec, err := in.Record(s.cfg.DefaultUser, s.now())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if _, err := s.db.InsertEntry(&rec); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// entryID parses the :id route parameter.
func entryID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid entry id")
	}
	return int64(id), nil
}

func (s *Server) getEntry(c *fiber.Ctx) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}
	rec, err := s.db.GetEntry(s.userParam(c), id)
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "entry not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

// updateEntry replaces an entry of the requesting user. The body has the
// same shape as for createEntry; a user field in it is ignored.
func (s *Server) updateEntry(c *fiber.Ctx) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}
	var in impact.Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid entry body: "+err.Error())
	}
	user := s.userParam(c)
	in.User = user
	rec, err := in.Record(s.cfg.DefaultUser, s.now())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	err = s.db.UpdateEntry(user, id, &rec)
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "entry not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

func (s *Server) deleteEntry(c *fiber.Ctx) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}
	err = s.db.DeleteEntry(s.userParam(c), id)
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "entry not found")
	}
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) stats(c *fiber.Ctx) error {
	records, err := s.db.ListEntries(store.EntryFilter{User: s.userParam(c)})
	if err != nil {
		return err
	}
	return c.JSON(impact.Summarize(records, s.now(), s.cfg.Stats.RecentDays, s.cfg.Stats.ActivityDays))
}

// suggestions runs the engine over the user's stored entries and records
// the result when history is enabled.
func (s *Server) suggestions(c *fiber.Ctx) error {
	user := s.userParam(c)
	records, err := s.db.ListEntries(store.EntryFilter{User: user, Limit: s.cfg.Suggest.MaxEntries})
	if err != nil {
		return err
	}

	res := s.engine.Predict(impact.ToUserData(records))
	if s.cfg.Suggest.SaveHistory {
		if _, err := s.db.InsertPrediction(user, res, s.now()); err != nil {
			s.log.Warn().Err(err).Str("user", user).Msg("saving prediction")
		}
	}
	return c.JSON(res)
}

func (s *Server) suggestionHistory(c *fiber.Ctx) error {
	preds, err := s.db.ListPredictions(s.userParam(c), c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return c.JSON(preds)
}

// predict scores a raw user-data document. Malformed bodies produce the
// fallback result, so this endpoint always answers 200.
func (s *Server) predict(c *fiber.Ctx) error {
	return c.JSON(s.engine.PredictJSON(c.Body()))
}
