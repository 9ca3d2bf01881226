package migration

import "github.com/scopeengine/core"

// backfillComponentLang is the only migration registered so far: it
// defaults an empty Component.Lang to "javascript", the language every
// component predating the Lang field was written in. It exists to exercise
// the migration mechanism end to end; real schema changes land here as the
// object model grows.
var backfillComponentLang = Migration{
	FromVersion: "0.2.0",
	Transforms: map[scope.Tag]TypeTransform{
		scope.TagComponent: func(obj scope.Object) (scope.Object, bool, error) {
			c := obj.(*scope.Component)
			if c.Lang != "" {
				return c, false, nil
			}
			next := c.Clone()
			next.Lang = "javascript"
			return next, true, nil
		},
	},
}
