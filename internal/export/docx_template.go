package export

import (
	"bytes"
	"fmt"
	"io/fs"
	"sync"
	"testing/fstest"

	"github.com/fumiama/go-docx"
)

// Paragraph styles added to the default go-docx template.
const (
	styleTitle   = "NotesTitle"
	styleHeading = "NotesHeading"
	styleBullet  = "NotesBullet"
	styleBody    = "NotesBody"
	styleAnswer  = "NotesAnswer"
	styleFooter  = "NotesFooter"
)

const templateName = "studynote"

// Sizes are in half-points, indents in twips. "a" is Normal in the default
// template.
var notesStyles = fmt.Sprintf(`
<w:style w:type="paragraph" w:customStyle="1" w:styleId="%[1]s"><w:name w:val="Notes Title"/><w:basedOn w:val="a"/><w:next w:val="a"/><w:qFormat/><w:pPr><w:spacing w:after="240"/><w:jc w:val="center"/></w:pPr><w:rPr><w:b/><w:color w:val="%[7]s"/><w:sz w:val="40"/></w:rPr></w:style>
<w:style w:type="paragraph" w:customStyle="1" w:styleId="%[2]s"><w:name w:val="Notes Heading"/><w:basedOn w:val="a"/><w:next w:val="a"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/></w:pPr><w:rPr><w:b/><w:color w:val="%[7]s"/><w:sz w:val="30"/></w:rPr></w:style>
<w:style w:type="paragraph" w:customStyle="1" w:styleId="%[3]s"><w:name w:val="Notes Bullet"/><w:basedOn w:val="a"/><w:qFormat/><w:pPr><w:ind w:left="360" w:hanging="360"/></w:pPr><w:rPr><w:sz w:val="22"/></w:rPr></w:style>
<w:style w:type="paragraph" w:customStyle="1" w:styleId="%[4]s"><w:name w:val="Notes Body"/><w:basedOn w:val="a"/><w:qFormat/><w:rPr><w:sz w:val="22"/></w:rPr></w:style>
<w:style w:type="paragraph" w:customStyle="1" w:styleId="%[5]s"><w:name w:val="Notes Answer"/><w:basedOn w:val="%[4]s"/><w:qFormat/><w:pPr><w:spacing w:after="160"/><w:ind w:left="360"/></w:pPr><w:rPr><w:i/></w:rPr></w:style>
<w:style w:type="paragraph" w:customStyle="1" w:styleId="%[6]s"><w:name w:val="Notes Footer"/><w:basedOn w:val="a"/><w:qFormat/><w:pPr><w:spacing w:before="240"/><w:jc w:val="center"/></w:pPr><w:rPr><w:i/><w:color w:val="%[8]s"/><w:sz w:val="18"/></w:rPr></w:style>
`, styleTitle, styleHeading, styleBullet, styleBody, styleAnswer, styleFooter, accentColor, footerColor)

// notesTemplate copies the default go-docx template and appends the notes
// paragraph styles to word/styles.xml.
var notesTemplate = sync.OnceValues(func() (fs.FS, error) {
	tmpl := fstest.MapFS{}
	for _, name := range docx.DefaultTemplateFilesList {
		data, err := fs.ReadFile(docx.TemplateXMLFS, "xml/default/"+name)
		if err != nil {
			return nil, fmt.Errorf("reading docx template %s: %w", name, err)
		}
		if name == "word/styles.xml" {
			end := bytes.LastIndex(data, []byte("</w:styles>"))
			if end < 0 {
				return nil, fmt.Errorf("docx template %s has no closing styles tag", name)
			}
			patched := make([]byte, 0, len(data)+len(notesStyles))
			patched = append(patched, data[:end]...)
			patched = append(patched, notesStyles...)
			data = append(patched, data[end:]...)
		}
		tmpl["xml/"+templateName+"/"+name] = &fstest.MapFile{Data: data, Mode: 0o644}
	}
	return tmpl, nil
})
