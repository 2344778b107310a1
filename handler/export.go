package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	C "campaigniq/config"
	mid "campaigniq/middleware"
	M "campaigniq/model"
	U "campaigniq/util"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var roiExportHeader = []string{"influencer_id", "name", "category", "platform",
	"attributed_revenue", "total_payout", "roi", "roas", "incremental_roas", "tier"}

// exportROIRows runs attribution + ROI for the export endpoints. The
// attribution method comes from the ?method= query, defaulting to
// Last_Touch, the common default for marketing reports.
func exportROIRows(c *gin.Context) ([]M.ROIResult, bool) {
	session := getSessionOrAbort(c)
	if session == nil {
		return nil, false
	}

	method := c.Query("method")
	if method == "" {
		method = M.AttributionMethodLastTouch
	}
	attributionConfig := M.AttributionConfig{HalfLifeDays: C.GetConfig().AttributionHalfLifeDays}
	baseline := M.BaselineConfig{OrganicConversionRate: C.GetConfig().OrganicConversionRate}

	view := buildUnifiedViewCached(session, &M.Filters{})
	roiResults, _, err := M.ComputeAttributionAndROI(view, method, attributionConfig, baseline)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return roiResults, true
}

func formatOptionalFloat(value M.OptionalFloat) string {
	if !value.Valid {
		return ""
	}
	return strconv.FormatFloat(value.Value, 'f', 4, 64)
}

// ExportROICSVHandler streams the ROI leaderboard as CSV.
func ExportROICSVHandler(c *gin.Context) {
	logCtx := log.WithFields(log.Fields{
		"reqId": U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID),
	})

	roiResults, ok := exportROIRows(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="roi.csv"`)

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(roiExportHeader); err != nil {
		logCtx.WithError(err).Error("Export failed. CSV write failed.")
		return
	}
	for i := range roiResults {
		result := &roiResults[i]
		record := []string{
			result.InfluencerID,
			result.Name,
			result.Category,
			result.Platform,
			strconv.FormatFloat(result.AttributedRevenue, 'f', 2, 64),
			strconv.FormatFloat(result.TotalPayout, 'f', 2, 64),
			formatOptionalFloat(result.ROI),
			formatOptionalFloat(result.ROAS),
			formatOptionalFloat(result.IncrementalROAS),
			result.Tier,
		}
		if err := writer.Write(record); err != nil {
			logCtx.WithError(err).Error("Export failed. CSV write failed.")
			return
		}
	}
	writer.Flush()
}

// ExportROIXLSXHandler writes the ROI leaderboard as a spreadsheet.
func ExportROIXLSXHandler(c *gin.Context) {
	logCtx := log.WithFields(log.Fields{
		"reqId": U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID),
	})

	roiResults, ok := exportROIRows(c)
	if !ok {
		return
	}

	file := excelize.NewFile()
	sheet := file.GetSheetName(file.GetActiveSheetIndex())
	for col, name := range roiExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = file.SetCellValue(sheet, cell, name)
	}
	for rowIdx := range roiResults {
		result := &roiResults[rowIdx]
		values := []interface{}{
			result.InfluencerID, result.Name, result.Category, result.Platform,
			result.AttributedRevenue, result.TotalPayout,
			formatOptionalFloat(result.ROI), formatOptionalFloat(result.ROAS),
			formatOptionalFloat(result.IncrementalROAS), result.Tier,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			_ = file.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="roi.xlsx"`)
	if err := file.Write(c.Writer); err != nil {
		logCtx.WithError(err).Error("Export failed. XLSX write failed.")
	}
}
