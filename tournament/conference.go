package tournament

import (
	"github.com/rs/xid"

	"github.com/justinjudd/league/models"
)

// Conference is a sub group of a division that plays its own round robin
type Conference struct {
	id          string
	name        string
	competitors []models.Competitor
	stage       *GroupStage
}

func newConference(name string, competitors []models.Competitor, scoring models.Scoring) (*Conference, error) {
	id := xid.New().String()
	stage, err := newGroupStage(id, competitors, len(competitors), scoring)
	if err != nil {
		return nil, err
	}
	return &Conference{id: id, name: name, competitors: copyCompetitors(competitors), stage: stage}, nil
}

func (c *Conference) GetID() string {
	return c.id
}

func (c *Conference) GetName() string {
	return c.name
}

func (c *Conference) GetCompetitors() []models.Competitor {
	return copyCompetitors(c.competitors)
}

// GroupStage is where the conference's results get recorded
func (c *Conference) GroupStage() *GroupStage {
	return c.stage
}

func (c *Conference) IsComplete() bool {
	return c.stage.IsComplete()
}

func (c *Conference) Standings() []models.StandingsRow {
	return c.stage.Standings()
}

func allComplete(conferences []*Conference) bool {
	for _, c := range conferences {
		if !c.IsComplete() {
			return false
		}
	}
	return true
}
