package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-cvbuilder/cv"
)

// XLSXRenderer writes the record as a workbook with one sheet per section.
type XLSXRenderer struct{}

type xlsxSheet struct {
	name    string
	headers []string
	rows    [][]any
}

// Render builds the workbook and writes it to w.
func (r XLSXRenderer) Render(ctx context.Context, job Job, w io.Writer) (RenderStats, error) {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	headerID, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return RenderStats{}, err
	}
	wrapID, err := file.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return RenderStats{}, err
	}

	sheets := xlsxSheets(job.Record)
	for i, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return RenderStats{}, err
		}
		if i == 0 {
			file.SetSheetName(file.GetSheetName(0), sheet.name)
		} else if _, err := file.NewSheet(sheet.name); err != nil {
			return RenderStats{}, err
		}

		stream, err := file.NewStreamWriter(sheet.name)
		if err != nil {
			return RenderStats{}, err
		}
		headers := make([]any, len(sheet.headers))
		for j, header := range sheet.headers {
			headers[j] = excelize.Cell{StyleID: headerID, Value: header}
		}
		if err := stream.SetRow("A1", headers); err != nil {
			return RenderStats{}, err
		}
		for j, row := range sheet.rows {
			cells := make([]any, len(row))
			for k, value := range row {
				cells[k] = excelize.Cell{StyleID: wrapID, Value: value}
			}
			if err := stream.SetRow(fmt.Sprintf("A%d", j+2), cells); err != nil {
				return RenderStats{}, err
			}
		}
		if err := stream.Flush(); err != nil {
			return RenderStats{}, err
		}
	}

	cw := &countingWriter{w: w}
	if _, err := file.WriteTo(cw); err != nil {
		return RenderStats{}, err
	}
	return RenderStats{Pages: len(sheets), Bytes: cw.count}, nil
}

func xlsxSheets(r cv.Record) []xlsxSheet {
	p := r.Personal
	profile := xlsxSheet{
		name:    "Profile",
		headers: []string{"Field", "Value"},
		rows: [][]any{
			{"Full name", p.FullName},
			{"Profession", p.Profession},
			{"Email", p.Email},
			{"Phone", p.Phone},
			{"Location", p.Location},
			{"Summary", p.Summary},
			{"LinkedIn", p.LinkedIn},
			{"GitHub", p.GitHub},
			{"Portfolio", p.Portfolio},
			{"Template", string(r.Template)},
		},
	}

	experience := xlsxSheet{name: "Experience", headers: []string{"Title", "Company", "Period", "Description"}}
	for _, exp := range r.Experiences {
		experience.rows = append(experience.rows, []any{exp.Title, exp.Company, exp.Period, exp.Description})
	}

	education := xlsxSheet{name: "Education", headers: []string{"Degree", "School", "Year", "Description"}}
	for _, edu := range r.Educations {
		education.rows = append(education.rows, []any{edu.Degree, edu.School, edu.Year, edu.Description})
	}

	skills := xlsxSheet{name: "Skills", headers: []string{"Skill"}}
	for _, skill := range r.Skills {
		skills.rows = append(skills.rows, []any{skill})
	}

	languages := xlsxSheet{name: "Languages", headers: []string{"Language", "Level", "Label"}}
	for _, lang := range r.Languages {
		languages.rows = append(languages.rows, []any{lang.Name, cv.NormalizeLevel(lang.Level), cv.LevelLabel(lang.Level)})
	}

	interests := xlsxSheet{name: "Interests", headers: []string{"Interest"}}
	for _, interest := range r.Interests {
		interests.rows = append(interests.rows, []any{interest})
	}

	return []xlsxSheet{profile, experience, education, skills, languages, interests}
}

type countingWriter struct {
	w     io.Writer
	count int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.count += int64(n)
	return n, err
}
