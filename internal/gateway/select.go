package gateway

import (
	"context"
	"fmt"

	"github.com/MRamiBalles/LifeSimulator/internal/backend"
	"github.com/MRamiBalles/LifeSimulator/internal/domain/character"
	"github.com/MRamiBalles/LifeSimulator/internal/engine"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/logger"
)

// Select returns a RemoteDriver when the service reports a signed-in user
// and the demo driver otherwise. The user's first character is driven; one
// is created when the account has none. Errors after authentication also
// fall back to demo mode and are returned alongside it.
func Select(ctx context.Context, client *backend.Client, demo *engine.Engine, log *logger.Logger) (Driver, error) {
	if log == nil {
		log = logger.Discard()
	}
	local := NewLocalDriver(demo)
	if client == nil {
		return local, nil
	}

	user, err := client.Me(ctx)
	if err != nil {
		log.Info("not signed in, using demo mode", "err", err)
		return local, nil
	}

	c, err := primaryCharacter(ctx, client, user)
	if err != nil {
		log.Warn("remote character unavailable, using demo mode", "user", user.ID, "err", err)
		return local, err
	}

	d := NewRemoteDriver(client, *c, log)
	if err := d.LoadHistory(ctx); err != nil {
		log.Warn("history unavailable", "character_id", c.ID, "err", err)
	}
	log.Info("remote mode", "user", user.ID, "character_id", c.ID)
	return d, nil
}

func primaryCharacter(ctx context.Context, client *backend.Client, user *backend.User) (*backend.Character, error) {
	list, err := client.ListCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	if len(list) > 0 {
		return &list[0], nil
	}

	name, err := character.ValidateName(user.Name)
	if err != nil {
		name = character.Fresh().Name
	}
	c, err := client.CreateCharacter(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create character: %w", err)
	}
	return c, nil
}
