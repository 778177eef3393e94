package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/models"
	"github.com/flagforge/flagforge-backend/internal/store"
)

const (
	teamKey = "team"
	ctfKey  = "ctf"
)

// LoadTeam resolves the :teamID path param into a full team aggregate
// (members preloaded) and attaches it for downstream handlers.
func LoadTeam(teams store.TeamStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		teamID, err := uuid.Parse(c.Params("teamID"))
		if err != nil {
			return apperr.BadRequest("error_invalid_id", "Invalid team id")
		}

		team, err := teams.FindByID(c.Context(), teamID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("error_team_not_found", "Team not found")
			}
			return apperr.Internal()
		}

		c.Locals(teamKey, team)
		return c.Next()
	}
}

// LoadCTF resolves the :ctfID path param. Team scoping is enforced by the
// services, which compare the CTF's team against the loaded team.
func LoadCTF(ctfs store.CTFStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctfID, err := uuid.Parse(c.Params("ctfID"))
		if err != nil {
			return apperr.BadRequest("error_invalid_id", "Invalid CTF id")
		}

		ctf, err := ctfs.FindByID(c.Context(), ctfID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("error_ctf_not_found", "CTF not found")
			}
			return apperr.Internal()
		}

		c.Locals(ctfKey, ctf)
		return c.Next()
	}
}

func CurrentTeam(c *fiber.Ctx) *models.Team {
	if team, ok := c.Locals(teamKey).(*models.Team); ok {
		return team
	}
	return nil
}

func CurrentCTF(c *fiber.Ctx) *models.CTF {
	if ctf, ok := c.Locals(ctfKey).(*models.CTF); ok {
		return ctf
	}
	return nil
}
