package email

const (
	subjectTestimonialInviteFmt = "Contanos cómo viviste %s"
	subjectLeadNotificationFmt  = "Nueva consulta para %s"
)
