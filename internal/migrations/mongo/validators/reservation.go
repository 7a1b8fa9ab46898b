package validators

import "go.mongodb.org/mongo-driver/bson"

const (
	datePattern  = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`
	clockPattern = `^([01][0-9]|2[0-3]):[0-5][0-9]$|^24:00$`
)

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"date",
			"start",
			"end",
			"owner",
			"unit_count",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  datePattern,
			},

			"start": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},

			"end": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},

			"owner": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"unit_count": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
