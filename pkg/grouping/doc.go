// Package grouping attaches issue folders to components and interfaces.
//
// Every owner (component or interface) gets a two-level compound group:
//
//	owner (tree root, owner placement behaviour)
//	└── container (invisible, folder arrangement behaviour)
//	    ├── folder BUG
//	    ├── folder FEATURE_REQUEST
//	    └── folder UNCLASSIFIED
//
// A folder exists only for categories with at least one issue. The container
// always exists, even when it has no folders, so a saved side is never lost.
//
// The owner placement behaviour puts the container on one compass side of
// the owner ([PlaceContainer]); the folder arrangement behaviour lines the
// folders up inside the container in category order ([ArrangeFolders]).
package grouping
