package email

const (
	subjectInterventionReceived  = "We received your rehoming request"
	subjectInterventionProceeded = "Your rehoming listing is ready to create"
)
