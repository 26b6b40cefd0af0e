package metrics

/*
Labels and so on for metrics used in async-image.
*/

const (
	Namespace = "asyncimage"

	LabelMethod  = "method"
	LabelSuccess = "success"
	LabelShared  = "shared"
)
