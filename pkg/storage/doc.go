// Package storage exposes S3-compatible object storage as routekit
// Services.
//
// Download streams an object as response frames without buffering it.
// Upload collects a bounded request body and stores it with PutObject.
// Both take a KeyFunc that derives the object key from the route's match
// context, so any Router can drive them:
//
//	client, err := storage.NewClient(storage.Config{
//		Bucket:    "assets",
//		AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
//		SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
//	})
//	if err != nil {
//		return err
//	}
//	byParam := func(p pattern.Params) string { return p.Get("*") }
//	routes := []routekit.HomogeneousRoute{
//		routekit.NewRoute[pattern.Params](pattern.New(http.MethodGet, "/files/*"),
//			storage.Download(client, "assets", byParam)).Homogenize(),
//		routekit.NewRoute[pattern.Params](pattern.New(http.MethodPut, "/files/*"),
//			storage.Upload(client, "assets", byParam,
//				storage.WithMaxUploadSize(5<<20),
//				storage.WithAllowedTypes("image/*"),
//			)).Homogenize(),
//	}
//
// # Errors
//
// S3 failures are normalized to package sentinels (ErrNotFound,
// ErrAccessDenied, ErrUploadFailed) and returned as HTTP errors:
// 404, 403, 415 for disallowed types, 400 for empty bodies or bad keys,
// 502 for anything else. A body over the upload limit surfaces as a
// request-too-large error (413).
package storage
