package conf

// DefaultPrioritySpecies lists the object names that mark a detection as
// high priority: humans and the livestock the camera is deployed to watch.
// Both local-language and English labels are included because the edge
// detector reports whichever model variant it runs.
var DefaultPrioritySpecies = []string{
	"person", "personne",
	"cow", "vache",
	"sheep", "mouton",
	"goat", "chevre", "chèvre",
	"horse", "cheval",
	"dog", "chien",
}
