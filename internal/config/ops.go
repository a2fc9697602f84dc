package config

func (c *Config) UpsertLaunch(l Launch) {
	for i := range c.Launches {
		if c.Launches[i].ID == l.ID {
			c.Launches[i] = l
			return
		}
	}
	c.Launches = append(c.Launches, l)
}

func (c *Config) RemoveLaunch(id string) bool {
	for i := range c.Launches {
		if c.Launches[i].ID != id {
			continue
		}
		c.Launches = append(c.Launches[:i], c.Launches[i+1:]...)
		return true
	}
	return false
}

// PruneDeadLaunches drops launches whose process is gone and returns them
// so callers can remove the matching terminal profiles.
func (c *Config) PruneDeadLaunches(isAlive func(pid int) bool) []Launch {
	var dead []Launch
	kept := c.Launches[:0]
	for _, l := range c.Launches {
		if l.PID > 0 && isAlive(l.PID) {
			kept = append(kept, l)
			continue
		}
		dead = append(dead, l)
	}
	c.Launches = kept
	return dead
}

// LaunchesForSession returns every live launch of the given session.
func (c Config) LaunchesForSession(sessionID string) []Launch {
	var out []Launch
	for _, l := range c.Launches {
		if l.SessionID == sessionID {
			out = append(out, l)
		}
	}
	return out
}
