package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.TextField{Name: "event", Required: true},
			&core.NumberField{Name: "seq", Required: true, OnlyInt: true},
			&core.TextField{Name: "code", Required: true},
			&core.TextField{Name: "buyer_email", Required: true},
			&core.SelectField{Name: "status", Required: true, MaxSelect: 1, Values: []string{"paid"}},
			&core.TextField{Name: "payment_ref"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		// Codes are globally unique, payment refs only when present (manual
		// issues have none), and seq restarts per event.
		collection.AddIndex("idx_tickets_code", true, "code", "")
		collection.AddIndex("idx_tickets_payment_ref", true, "payment_ref", "payment_ref != ''")
		collection.AddIndex("idx_tickets_event_seq", true, "event, seq", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
