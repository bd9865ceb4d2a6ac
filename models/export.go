package models

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportMembersExcel renders the full member register as an xlsx workbook for
// the admin dashboard download.
func ExportMembersExcel(ctx context.Context) (*bytes.Buffer, error) {
	members, err := ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Members"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Membership ID", "Company Name", "Company Type", "Member Type", "Status",
		"Primary Mobile", "Primary Email", "GST Number",
		"District", "Unit", "Partners", "Latest Receipt", "Joined At",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for row, m := range members {
		membershipId := ""
		if m.MembershipId != nil {
			membershipId = *m.MembershipId
		}
		partnerNames := make([]string, 0, len(m.Partners))
		for _, p := range m.Partners {
			partnerNames = append(partnerNames, p.Name)
		}
		receipt := ""
		for _, p := range m.Payments {
			if p.Status == PaymentStatusPaid && p.ReceiptNumber != nil {
				receipt = *p.ReceiptNumber
				break
			}
		}
		values := []interface{}{
			membershipId, m.CompanyName, m.CompanyType, string(m.MemberType), string(m.Status),
			m.PrimaryMobile, m.PrimaryEmail, m.GstNumber,
			m.District, m.Unit, strings.Join(partnerNames, ", "), receipt,
			m.JoinedAt.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "M", 20); err != nil {
		return nil, err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
