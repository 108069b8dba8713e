package export

import (
	"strconv"

	"github.com/Dan9191/exercise-tracker/internal/models"
	"github.com/beevik/etree"
)

// LogXML renders an exercise log as an XML document:
//
//	<log id=".." username=".." count="N">
//	  <exercise><description/><duration/><date/></exercise>
//	</log>
func LogXML(log *models.ExerciseLog) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("log")
	root.CreateAttr("id", log.ID)
	root.CreateAttr("username", log.Username)
	root.CreateAttr("count", strconv.Itoa(log.Count))

	for _, entry := range log.Log {
		ex := root.CreateElement("exercise")
		ex.CreateElement("description").SetText(entry.Description)
		ex.CreateElement("duration").SetText(strconv.Itoa(entry.Duration))
		ex.CreateElement("date").SetText(entry.Date)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}
