package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"peer-review/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRatings    = errors.New("该周期暂无评分记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出某个评审周期的全部评分原始记录为 Excel (.xlsx)，逐条平铺、不做任何汇总计算
//   - 历史（已停用）周期同样可导出，按周期 ID 查询不过滤活跃状态
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 评分记录本身不含评分人，导出内容天然匿名
type ExportService interface {
	// ExportRatings 导出指定周期的评分为 Excel
	ExportRatings(ctx context.Context, cycleID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRatings — 导出评分为 Excel
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportRatings(ctx context.Context, cycleID string) (*bytes.Buffer, string, error) {
	// 1. 查询周期（不限活跃状态）
	cycle, err := s.repo.ReviewCycle.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCycleNotFound
		}
		s.logger.Error("查询评审周期失败", zap.String("id", cycleID), zap.Error(err))
		return nil, "", err
	}

	// 2. 查询全部评分
	ratings, err := s.repo.Rating.ListByCycle(ctx, cycleID)
	if err != nil {
		s.logger.Error("查询评分失败", zap.String("cycle_id", cycleID), zap.Error(err))
		return nil, "", err
	}
	if len(ratings) == 0 {
		return nil, "", ErrExportNoRatings
	}

	displayName := func(i int) (target, metric string) {
		target, metric = ratings[i].TargetUserID, ratings[i].MetricID
		if ratings[i].TargetUser != nil {
			target = ratings[i].TargetUser.Username
		}
		if ratings[i].Metric != nil {
			metric = ratings[i].Metric.Name
		}
		return
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	detailSheet := "评分明细"
	idx, _ := f.NewSheet(detailSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(detailSheet, "A", "B", 20)
	f.SetColWidth(detailSheet, "C", "D", 10)
	f.SetColWidth(detailSheet, "E", "E", 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(detailSheet, "A1", fmt.Sprintf("%s — 评分明细", cycle.Name))
	f.MergeCell(detailSheet, "A1", "E1")
	f.SetCellStyle(detailSheet, "A1", "A1", headerStyle)

	headers := []string{"被评人", "指标", "分值", "自评", "提交时间"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(detailSheet, cell(col, 2), h)
	}

	row := 3
	for i := range ratings {
		target, metric := displayName(i)
		selfMark := "否"
		if ratings[i].IsSelfReview {
			selfMark = "是"
		}
		f.SetCellValue(detailSheet, cell("A", row), target)
		f.SetCellValue(detailSheet, cell("B", row), metric)
		f.SetCellValue(detailSheet, cell("C", row), ratings[i].Value)
		f.SetCellValue(detailSheet, cell("D", row), selfMark)
		f.SetCellValue(detailSheet, cell("E", row), ratings[i].UpdatedAt.Format("2006-01-02 15:04"))
		row++
	}

	// 4. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("评分导出_%s.xlsx", cycle.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
